package audit

import "fmt"

// AccountEvent records owner account creation and login
type AccountEvent struct {
	Email        string
	UserID       string
	ClientIP     string
	Operation    string // "register", "login"
	Success      bool
	ErrorMessage string
}

func (e AccountEvent) MessageID() string {
	if e.Operation == "login" {
		return "authn"
	}
	return "account"
}

func (e AccountEvent) Message() string {
	if e.Success {
		if e.Operation == "login" {
			return fmt.Sprintf("%s successfully logged in", e.Email)
		}
		return fmt.Sprintf("account %s created", e.Email)
	}
	msg := fmt.Sprintf("%s failed to %s", e.Email, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AccountEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AccountEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"email": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.UserID != "" {
		sd[SDIDAuth] = map[string]string{"user": e.UserID}
	}
	return sd
}
