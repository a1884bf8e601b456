package api

import "encoding/json"

// Envelope is the backend's response wrapper: {status, data?, message?}.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OK reports whether the envelope carries a success status.
func (e Envelope) OK() bool { return e.Status == "success" }

// DecodeEnvelope classifies a raw payload in one step. Payloads without a
// status field are not envelopes and fail closed rather than being probed
// field by field at call sites.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, &ServerError{Message: "malformed response"}
	}
	if env.Status == "" {
		return Envelope{}, &ServerError{Message: "response is not a status envelope"}
	}
	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return env, &ServerError{Message: msg}
	}
	return env, nil
}

// DecodeData decodes an envelope's data field into out after validating the
// envelope itself.
func DecodeData(raw []byte, out any) error {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ServerError{Message: "malformed response data"}
	}
	return nil
}
