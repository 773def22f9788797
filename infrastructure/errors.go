package infrastructure

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrMissingToken    = errors.New("no token provided")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
)

// ValidationError carries per-field messages so REST responses can show them
// next to the offending input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation failed: %s: %s", field, msg)
	}
	return "validation failed"
}

// AuthorizationError refuses an operation outright; it is never partially
// applied.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

// NotFoundError wraps one of the Err*NotFound sentinels with the identifier
// that missed.
type NotFoundError struct {
	Kind error
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// TransportError marks a delivery failure to a single recipient. It is
// isolated at the broadcast layer and never propagates to other recipients.
type TransportError struct {
	Reason string
}

func (e *TransportError) Error() string {
	return "transport: " + e.Reason
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
