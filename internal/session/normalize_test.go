package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wichananm65/storefront-client/internal/api"
)

func TestNormalizeUser(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTok  string
		wantUser string
		wantErr  bool
	}{
		{
			name:     "envelope with data",
			raw:      `{"status":"success","data":{"id":3,"username":"alice","email":"a@x.io","token":"tok-env"}}`,
			wantTok:  "tok-env",
			wantUser: "alice",
		},
		{
			name:     "flat with token and nested user",
			raw:      `{"token":"tok-flat","user":{"email":"a@x.io","is_admin":true}}`,
			wantTok:  "tok-flat",
			wantUser: "alice", // falls back to the login credentials
		},
		{
			name:     "flat with key",
			raw:      `{"key":"tok-key"}`,
			wantTok:  "tok-key",
			wantUser: "alice",
		},
		{
			name:     "bare user object carrying token",
			raw:      `{"username":"bob","token":"tok-bare"}`,
			wantTok:  "tok-bare",
			wantUser: "bob",
		},
		{
			name:    "envelope without token",
			raw:     `{"status":"success","data":{"username":"alice"}}`,
			wantErr: true,
		},
		{
			name:    "error envelope",
			raw:     `{"status":"error","message":"Invalid credentials"}`,
			wantErr: true,
		},
		{
			name:    "flat object without any token field",
			raw:     `{"username":"alice","email":"a@x.io"}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			raw:     `"just a string"`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := normalizeUser([]byte(tc.raw), "alice")
			if tc.wantErr {
				require.Error(t, err)
				var authErr *api.AuthError
				require.True(t, errors.As(err, &authErr), "want AuthError, got %T", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantTok, u.Token)
			require.Equal(t, tc.wantUser, u.Username)
		})
	}
}

func TestNormalizeUserKeepsNestedProfile(t *testing.T) {
	raw := `{"token":"t","user":{"username":"carol","is_admin":true,"user_type":"admin"}}`
	u, err := normalizeUser([]byte(raw), "ignored")
	require.NoError(t, err)
	require.Equal(t, "carol", u.Username)
	require.True(t, u.IsAdmin)
	require.Equal(t, "admin", u.UserType)
}
