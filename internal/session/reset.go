package session

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/wichananm65/storefront-client/internal/api"
)

// SetResetToken validates a forgot-password token with the backend and
// records the outcome. Validating the token that is already valid is a
// no-op success. Any backend or network failure lands in ResetInvalid.
func (m *Manager) SetResetToken(ctx context.Context, token string) bool {
	m.mu.Lock()
	if token != "" && token == m.resetToken && m.resetState == ResetValid {
		m.mu.Unlock()
		return true
	}
	m.resetToken = token
	m.resetState = ResetPending
	m.mu.Unlock()

	if token == "" {
		m.mu.Lock()
		m.resetState = ResetNoToken
		m.mu.Unlock()
		return false
	}

	status, raw, err := m.api.Do(ctx, http.MethodPost, "/api/auth/validate-reset-token/", map[string]string{"token": token})
	if err != nil || !api.Success(status) {
		log.Printf("reset token validation failed: status=%d err=%v", status, err)
		m.invalidateResetToken()
		return false
	}

	var body struct {
		Status   string `json:"status"`
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Status != "success" {
		m.invalidateResetToken()
		return false
	}

	m.mu.Lock()
	m.resetState = ResetValid
	m.username = body.Username
	m.mu.Unlock()
	return true
}

// ClearResetToken resets the forgot-password flow.
func (m *Manager) ClearResetToken() {
	m.mu.Lock()
	m.resetToken = ""
	m.resetState = ResetNoToken
	m.mu.Unlock()
}

func (m *Manager) invalidateResetToken() {
	m.mu.Lock()
	m.resetToken = ""
	m.resetState = ResetInvalid
	m.mu.Unlock()
}

// ValidatePassword asks the backend to run its password-strength checks.
// Rejections and connection problems both surface as a ValidationError,
// never as a panic-worthy failure.
func (m *Manager) ValidatePassword(ctx context.Context, password string) error {
	status, raw, err := m.api.Do(ctx, http.MethodPost, "/api/auth/validate-password/", map[string]string{"password": password})
	if err != nil {
		return &api.ValidationError{Messages: []string{"Failed to validate password. Please check your connection."}}
	}
	if api.Success(status) {
		return nil
	}

	var body struct {
		Message json.RawMessage `json:"message"`
	}
	msgs := []string{"Invalid password"}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Message) > 0 {
		var many []string
		var one string
		if err := json.Unmarshal(body.Message, &many); err == nil {
			msgs = many
		} else if err := json.Unmarshal(body.Message, &one); err == nil && one != "" {
			msgs = []string{one}
		}
	}
	return &api.ValidationError{Messages: msgs}
}

// UpdateUsername renames the account on the backend and re-keys every
// per-username entry in local storage so the identity survives the rename.
func (m *Manager) UpdateUsername(ctx context.Context, newUsername string) error {
	m.mu.RLock()
	old := m.username
	m.mu.RUnlock()
	if old == "" {
		return &api.AuthError{Message: "not authenticated"}
	}

	status, raw, err := m.api.Do(ctx, http.MethodPut, "/api/auth/update-username/", map[string]string{"username": newUsername})
	if err != nil {
		return err
	}
	if !api.Success(status) {
		return &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to update username")}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, prefix := range []string{tokenKeyPrefix, userKeyPrefix, "cart_", "savedCart_"} {
		if v, ok := m.local.Get(prefix + old); ok {
			_ = m.local.Set(prefix+newUsername, v)
			m.local.Delete(prefix + old)
		}
	}
	if m.user != nil {
		m.user.Username = newUsername
	}
	var u User
	if ok := getStoredUser(m.local, newUsername, &u); ok {
		u.Username = newUsername
		_ = setStoredUser(m.local, newUsername, u)
	}
	m.username = newUsername
	_ = m.tab.Set(currentUserKey, []byte(newUsername))
	_ = m.local.Set(lastActiveUserKey, []byte(newUsername))
	return nil
}

// UpdateAddress stores a new shipping address on the account.
func (m *Manager) UpdateAddress(ctx context.Context, address string) error {
	status, raw, err := m.api.Do(ctx, http.MethodPut, "/api/auth/update-address/", map[string]string{"address": address})
	if err != nil {
		return err
	}
	if !api.Success(status) {
		return &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to update address")}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil {
		m.user.Address = address
		_ = setStoredUser(m.local, m.username, *m.user)
	}
	return nil
}
