package session

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/cart"
	"github.com/wichananm65/storefront-client/internal/storage"
)

// Carts is the slice of the cart reconciler the session manager drives:
// the guest merge after login and the snapshot dance around logout.
type Carts interface {
	// Sync merges the guest cart into the authenticated server cart and
	// returns the merged result (ignored here).
	Sync(ctx context.Context) []cart.Line
	// Snapshot saves the user's cart as a restore point and clears it.
	Snapshot(username string)
	// RestoreSaved moves a snapshot back into the guest cart. When
	// overwrite is false an existing guest cart is left alone.
	RestoreSaved(username string, overwrite bool)
}

// Manager owns the active session of this process: which identity is
// current, its token, and the forgot-password side flow. Identities are
// persisted per username in the durable store; the current-username marker
// lives in the volatile store so independent processes stay independent.
type Manager struct {
	api   *api.Client
	local storage.Store // durable, shared across processes
	tab   storage.Store // volatile, this process only
	carts Carts

	mu         sync.RWMutex
	user       *User
	username   string
	token      string
	loggedIn   bool
	loginTime  time.Time
	lastError  string
	resetToken string
	resetState ResetTokenState
}

// NewManager wires the session manager. The api client's token source is
// pointed at this manager so every request picks up the active token.
func NewManager(client *api.Client, local, tab storage.Store) *Manager {
	m := &Manager{api: client, local: local, tab: tab}
	client.SetTokenSource(m.Token)
	return m
}

// SetCarts installs the cart reconciler hook. Wired by the application
// root; kept optional so the manager is testable on its own.
func (m *Manager) SetCarts(c Carts) { m.carts = c }

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend and, on success, persists the
// identity, marks it current and merges any guest cart into the account.
// Prior session state is untouched on failure.
func (m *Manager) Login(ctx context.Context, username, password string) (User, error) {
	status, raw, err := m.api.Do(ctx, http.MethodPost, "/api/auth/login/", credentials{username, password})
	if err != nil {
		m.setError(err.Error())
		return User{}, err
	}
	if !api.Success(status) {
		msg := api.ErrorMessage(raw, fmt.Sprintf("login failed with status %d", status))
		m.setError(msg)
		return User{}, &api.AuthError{Message: msg}
	}

	u, err := normalizeUser(raw, username)
	if err != nil {
		m.setError(err.Error())
		return User{}, err
	}

	m.mu.Lock()
	_ = m.local.Set(tokenKey(u.Username), []byte(u.Token))
	_ = storage.SetJSON(m.local, userKey(u.Username), u)
	_ = m.local.Set(lastActiveUserKey, []byte(u.Username))
	_ = m.tab.Set(currentUserKey, []byte(u.Username))

	m.user = &u
	m.username = u.Username
	m.token = u.Token
	m.loggedIn = true
	m.loginTime = time.Now()
	m.lastError = ""
	m.resetToken = ""
	m.resetState = ResetNoToken
	m.mu.Unlock()

	if m.carts != nil {
		// a snapshot taken at the last logout becomes the guest cart, so
		// the sync below carries it to the server
		m.carts.RestoreSaved(u.Username, true)
		m.carts.Sync(ctx)
	}
	return u, nil
}

// Register creates an account and then logs in with the same credentials.
// Registration alone does not establish a session.
func (m *Manager) Register(ctx context.Context, data RegisterData) (User, error) {
	status, raw, err := m.api.Do(ctx, http.MethodPost, "/api/auth/register/", data)
	if err != nil {
		m.setError(err.Error())
		return User{}, err
	}
	if !api.Success(status) {
		msg := api.ErrorMessage(raw, fmt.Sprintf("registration failed with status %d", status))
		m.setError(msg)
		return User{}, &api.AuthError{Message: msg}
	}
	if _, err := normalizeUser(raw, data.Username); err != nil {
		m.setError(err.Error())
		return User{}, err
	}

	return m.Login(ctx, data.Username, data.Password)
}

// Logout tears the session down. The remote call is best effort: its
// failure is logged and the local teardown proceeds regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.RLock()
	username := m.username
	token := m.token
	m.mu.RUnlock()

	if m.carts != nil && username != "" {
		m.carts.Snapshot(username)
	}

	if token != "" {
		if status, _, err := m.api.Do(ctx, http.MethodPost, "/api/auth/logout/", nil); err != nil {
			log.Printf("logout: remote call failed: %v", err)
		} else if !api.Success(status) {
			log.Printf("logout: backend returned status %d", status)
		}
	}

	m.mu.Lock()
	m.tab.Delete(currentUserKey)
	m.clearSessionLocked()
	m.mu.Unlock()
}

// Initialize restores the last active identity from storage. Run once at
// process startup; it never fails, any unreadable state means "no session".
func (m *Manager) Initialize() {
	username := m.activeUsername()
	if username == "" {
		return
	}

	var u User
	tok, tokOK := m.local.Get(tokenKey(username))
	if !tokOK || !storage.GetJSON(m.local, userKey(username), &u) {
		return
	}

	m.mu.Lock()
	_ = m.tab.Set(currentUserKey, []byte(username))
	m.user = &u
	m.username = username
	m.token = string(tok)
	m.loggedIn = true
	m.loginTime = time.Now()
	m.mu.Unlock()

	if m.carts != nil {
		m.carts.RestoreSaved(username, false)
	}
}

// SwitchUser repoints this process at another locally-stored identity.
// Returns false, without touching the current marker, when no token is
// stored for the requested username.
func (m *Manager) SwitchUser(username string) bool {
	tok, ok := m.local.Get(tokenKey(username))
	if !ok {
		return false
	}
	var u User
	if !storage.GetJSON(m.local, userKey(username), &u) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.tab.Set(currentUserKey, []byte(username))
	_ = m.local.Set(lastActiveUserKey, []byte(username))
	m.user = &u
	m.username = username
	m.token = string(tok)
	m.loggedIn = true
	m.loginTime = time.Now()
	return true
}

// StoredUsers lists every account remembered on this device.
func (m *Manager) StoredUsers() []string {
	keys := m.local.Keys(userKeyPrefix)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k[len(userKeyPrefix):])
	}
	return out
}

func (m *Manager) activeUsername() string {
	if v, ok := m.tab.Get(currentUserKey); ok {
		return string(v)
	}
	// fresh process: fall back to the durable last-active record
	if v, ok := m.local.Get(lastActiveUserKey); ok {
		return string(v)
	}
	return ""
}

func (m *Manager) clearSessionLocked() {
	m.user = nil
	m.username = ""
	m.token = ""
	m.loggedIn = false
	m.loginTime = time.Time{}
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.lastError = msg
	m.mu.Unlock()
}
