package domain

import (
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUserNotFound = errors.New("user not found")
var ErrWrongSecret = errors.New("incorrect membership secret")
var ErrSessionNotFound = errors.New("session not found")

// ErrIntegrity signals stored data that cannot be interpreted, such as a
// malformed password hash.
var ErrIntegrity = errors.New("stored data integrity violation")

// FieldError is a single validation failure tied to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries every field failure found in one submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// For returns the messages reported for field, in order.
func (v ValidationErrors) For(field string) []string {
	var out []string
	for _, fe := range v {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// DuplicateFieldError reports a registration colliding with an existing
// user on a unique field ("email" or "username").
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return e.Field + " is already in use"
}
