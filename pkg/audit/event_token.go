package audit

import "fmt"

// TokenEvent records a read or rotation of an install token
type TokenEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // "read", "rotate"
	Success      bool
	ErrorMessage string
}

func (e TokenEvent) MessageID() string {
	return "install-token"
}

func (e TokenEvent) Message() string {
	verb := "read"
	if e.Operation == "rotate" {
		verb = "rotated"
	}
	if e.Success {
		return fmt.Sprintf("%s %s their install token", e.UserID, verb)
	}
	msg := fmt.Sprintf("%s failed to %s their install token", e.UserID, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TokenEvent) Severity() Severity {
	if e.Success && e.Operation == "rotate" {
		return SeverityNotice
	}
	return severity(e.Success)
}

func (e TokenEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TokenEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
