package chatbot

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when a turn arrives for a session that was
// abandoned or evicted. The caller must start a new session.
var ErrSessionExpired = errors.New("chat session expired")

// ProviderError wraps a failure of the external hotel provider. Recoverable:
// the turn surfaces a retryable response and state is left unchanged.
type ProviderError struct {
	Op      string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("hotel provider %s failed: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError builds a ProviderError for the given operation.
func NewProviderError(op, msg string, err error) error {
	return &ProviderError{Op: op, Message: msg, Err: err}
}

// ValidationError signals a booking attempted with missing or invalid data.
// Recoverable: the turn surfaces a prompt for the offending slot.
type ValidationError struct {
	Slot    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Slot, e.Message)
}
