package session

import (
	"time"

	"github.com/wichananm65/storefront-client/internal/storage"
)

// User represents one locally-known account as returned by the backend.
// Field names follow the backend's snake_case contract.
type User struct {
	ID          int    `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Token       string `json:"token,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	Address     string `json:"address,omitempty"`
}

// RegisterData is the payload for account creation.
type RegisterData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	UserType  string `json:"user_type,omitempty"`
}

// ResetTokenState tracks the forgot-password flow.
type ResetTokenState int

const (
	ResetNoToken ResetTokenState = iota
	ResetPending
	ResetValid
	ResetInvalid
)

// storage key layout. Identities are stored independently per username so
// several accounts can coexist on one device without overwriting each other.
const (
	currentUserKey    = "currentUsername"
	lastActiveUserKey = "lastActiveUsername"
	tokenKeyPrefix    = "auth_token_"
	userKeyPrefix     = "user_"
)

func tokenKey(username string) string { return tokenKeyPrefix + username }
func userKey(username string) string  { return userKeyPrefix + username }

func getStoredUser(s storage.Store, username string, out *User) bool {
	return storage.GetJSON(s, userKey(username), out)
}

func setStoredUser(s storage.Store, username string, u User) error {
	return storage.SetJSON(s, userKey(username), u)
}

// IsAuthenticated reports whether a user and token are both present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedIn && m.token != "" && m.user != nil
}

// CurrentUser returns the active user, if any.
func (m *Manager) CurrentUser() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return User{}, false
	}
	return *m.user, true
}

// UserName returns the active username, falling back to the one recorded by
// the reset-token flow.
func (m *Manager) UserName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user != nil && m.user.Username != "" {
		return m.user.Username
	}
	return m.username
}

// Token returns the active auth token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.IsAdmin
}

func (m *Manager) IsSuperuser() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.IsSuperuser
}

func (m *Manager) UserType() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user != nil && m.user.UserType != "" {
		return m.user.UserType
	}
	return "customer"
}

// LoginDuration returns how long the current session has been active.
func (m *Manager) LoginDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loginTime.IsZero() {
		return 0
	}
	return time.Since(m.loginTime)
}

// LastError returns the message recorded by the most recent failed
// operation, for user-facing feedback.
func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// ResetState returns the current forgot-password state.
func (m *Manager) ResetState() ResetTokenState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resetState
}
