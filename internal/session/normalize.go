package session

import (
	"encoding/json"

	"github.com/wichananm65/storefront-client/internal/api"
)

// normalizeUser classifies a successful auth response into exactly one of
// the shapes the backend is known to produce and extracts the user record:
//
//  1. an envelope: {"status":"success","data":{...,"token":...}}
//  2. a flat object with "token" or "key" plus an optional nested "user"
//  3. a flat user object carrying "token" directly
//
// Anything without an extractable token fails closed.
func normalizeUser(raw []byte, username string) (User, error) {
	// shape 1: status envelope
	var env api.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return User{}, &api.AuthError{Message: "malformed authentication response"}
	}
	if env.Status != "" {
		if !env.OK() || len(env.Data) == 0 {
			return User{}, &api.AuthError{Message: "no authentication token received"}
		}
		var u User
		if err := json.Unmarshal(env.Data, &u); err != nil || u.Token == "" {
			return User{}, &api.AuthError{Message: "no authentication token received"}
		}
		if u.Username == "" {
			u.Username = username
		}
		return u, nil
	}

	// shape 2: flat object carrying token/key with optional nested user
	var flat struct {
		Token string `json:"token"`
		Key   string `json:"key"`
		User  *User  `json:"user"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && (flat.Token != "" || flat.Key != "") {
		u := User{}
		if flat.User != nil {
			u = *flat.User
		} else {
			// shape 3: the payload is the user object itself
			_ = json.Unmarshal(raw, &u)
		}
		u.Token = flat.Token
		if u.Token == "" {
			u.Token = flat.Key
		}
		if u.Username == "" {
			u.Username = username
		}
		return u, nil
	}

	return User{}, &api.AuthError{Message: "no authentication token received"}
}
