package offerskit

import (
	"errors"
	"fmt"
)

// APIError kinds.
const (
	ErrorKindConflict         = "Conflict"
	ErrorKindValidation       = "Validation"
	ErrorKindUnauthorized     = "Unauthorized"
	ErrorKindNotFound         = "NotFound"
	ErrorKindUnexpectedStatus = "UnexpectedStatus"
	ErrorKindRetriesExhausted = "RetriesExhausted"
)

// AuthError reports a failure to obtain an access token: a missing or
// rejected refresh credential, or an exhausted refresh retry budget.
type AuthError struct {
	Message string
	Cause   error
}

// Error implements error interface.
func (e *AuthError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("auth: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// APIError is a terminal failure of an Offers API operation. Details carries
// the server's structured payload when one exists (validation errors).
type APIError struct {
	Kind       string
	Message    string
	StatusCode int
	Details    any
	Body       string
	Cause      error
}

// Error implements error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*APIError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsConflict reports whether err is a product-already-registered conflict.
func IsConflict(err error) bool {
	return apiErrorKind(err) == ErrorKindConflict
}

// IsValidation reports whether err is a server-side validation failure.
func IsValidation(err error) bool {
	return apiErrorKind(err) == ErrorKindValidation
}

// IsNotFound reports whether err is a product-not-registered failure.
func IsNotFound(err error) bool {
	return apiErrorKind(err) == ErrorKindNotFound
}

// IsUnauthorized reports whether err is an authorization failure that
// survived the forced reauth retry.
func IsUnauthorized(err error) bool {
	return apiErrorKind(err) == ErrorKindUnauthorized
}

// ErrorDetails extracts the structured detail payload from a validation
// error, or nil.
func ErrorDetails(err error) any {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Details
	}
	return nil
}

func apiErrorKind(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
