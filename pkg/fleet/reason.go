package fleet

//go:generate go run github.com/dmarkham/enumer -type AuthReason,ValidationReason -trimprefix AuthReason,ValidationReason -transform snake -json -output reason.gen.go

// AuthReason says why a caller was refused.
type AuthReason int

const (
	AuthReasonUnauthenticated AuthReason = iota
	AuthReasonInvalidToken
	AuthReasonUnknownServer
	AuthReasonBadSignature
	AuthReasonInvalidCredentials
)

// ValidationReason says why a request was rejected before any trust check.
type ValidationReason int

const (
	ValidationReasonMissingFields ValidationReason = iota
	ValidationReasonMalformedBody
	ValidationReasonBodyTooLarge
	ValidationReasonEmailTaken
)
