package fleet

import "fmt"

// ValidationError reports a malformed request. Nothing was stored.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError reports a missing, invalid or insufficient credential. The
// message is generic on purpose and never says which part failed.
type AuthError struct {
	Reason  AuthReason
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// InternalError wraps a storage or randomness failure. Err is for logs
// only and must not reach a caller.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func validationError(reason ValidationReason) error {
	msg := "Invalid request"
	switch reason {
	case ValidationReasonMissingFields:
		msg = "Missing fields"
	case ValidationReasonMalformedBody:
		msg = "Invalid JSON Body"
	case ValidationReasonBodyTooLarge:
		msg = "Payload Too Large"
	case ValidationReasonEmailTaken:
		msg = "User already exists"
	}
	return &ValidationError{Reason: reason, Message: msg}
}

func authError(reason AuthReason) error {
	msg := "Unauthorized"
	switch reason {
	case AuthReasonInvalidToken:
		msg = "Invalid Install Token"
	case AuthReasonBadSignature:
		msg = "Bad Signature"
	case AuthReasonInvalidCredentials:
		msg = "Invalid credentials"
	}
	return &AuthError{Reason: reason, Message: msg}
}

func internalError(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

// ErrMissingHeaders is returned by transports when the server id or
// signature header is absent.
var ErrMissingHeaders = &ValidationError{Reason: ValidationReasonMissingFields, Message: "Missing Headers"}

// ErrBodyTooLarge is returned by transports when a snapshot body exceeds
// the configured limit.
var ErrBodyTooLarge = validationError(ValidationReasonBodyTooLarge)
