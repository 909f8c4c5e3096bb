package session

import (
	"encoding/json"
	"fmt"
)

// Key is the fixed store key holding the serialized session of a device.
const Key = "user"

// Session represents a locally cached, previously authenticated user
type Session struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// record mirrors Session with a pointer role so that a missing member can be told apart
// from an empty one. Name and email are kept raw; only the role decides validity.
type record struct {
	Role  *string         `json:"role"`
	Name  json.RawMessage `json:"name"`
	Email json.RawMessage `json:"email"`
}

// Decode parses a stored value into a Session. The value must be a JSON object with a
// string "role" member; name and email are optional.
func Decode(data string) (*Session, error) {
	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if rec.Role == nil {
		return nil, fmt.Errorf("%w: missing role", ErrInvalidSession)
	}

	return &Session{
		Role:  *rec.Role,
		Name:  optionalString(rec.Name),
		Email: optionalString(rec.Email),
	}, nil
}

// optionalString returns raw as a string when it holds one, and "" otherwise
func optionalString(raw json.RawMessage) string {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// Encode serializes a Session for storage
func Encode(s *Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	return string(data), nil
}
