package api

import "fmt"

// AuthError covers bad credentials, responses with no extractable token and
// expired or invalid reset tokens.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response or an envelope with status "error".
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// ValidationError is a backend rejection of user input, e.g. a weak password.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return "validation failed"
}
