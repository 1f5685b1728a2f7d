// ABOUTME: Wire types for the assistant backend endpoints
// ABOUTME: Includes an order-preserving JSON object for session context

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LoginRequest is the body of POST /auth/token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /auth/token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// TrainResult is returned by POST /train.
type TrainResult struct {
	Status string `json:"status"`
	Stdout string `json:"stdout,omitempty"`
	Model  string `json:"model,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Succeeded reports whether the backend declared the run successful.
func (r *TrainResult) Succeeded() bool {
	return r.Status == "success"
}

// LogRecord is one opaque entry from GET /logs/{user_id}.
type LogRecord = json.RawMessage

// FallbackEvent records an utterance the primary intent classifier declined.
type FallbackEvent struct {
	UserID     string  `json:"user_id"`
	Timestamp  string  `json:"timestamp"`
	Intent     string  `json:"intent"`
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
}

// FallbackSource is returned by GET /admin/fallback-source/{user_id}.
type FallbackSource struct {
	Source string `json:"source"`
}

// ReplyRequest is the body of POST /chat/generate-reply.
type ReplyRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ReplyResponse is returned by POST /chat/generate-reply.
type ReplyResponse struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent,omitempty"`
	Tone   string `json:"tone,omitempty"`
}

// Field is one key/value pair of a SessionContext.
type Field struct {
	Key   string
	Value json.RawMessage
}

// SessionContext is the opaque per-user mapping returned by GET /session/{user_id}.
// Keys keep the order in which they arrived on the wire.
type SessionContext struct {
	Fields []Field
}

// Len returns the number of keys.
func (s *SessionContext) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// Get returns the raw value stored under key.
func (s *SessionContext) Get(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	for _, f := range s.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in arrival order.
func (s *SessionContext) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// UnmarshalJSON decodes an object token by token so key order survives.
// A JSON null yields an empty context.
func (s *SessionContext) UnmarshalJSON(data []byte) error {
	s.Fields = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("session context: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("session context: expected key, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("session context: value for %q: %w", key, err)
		}
		s.Fields = append(s.Fields, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the fields back in arrival order.
func (s SessionContext) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
