package audit

import "fmt"

// EnrollEvent records an agent enrollment attempt
type EnrollEvent struct {
	ServerID     string
	OwnerID      string
	Hostname     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e EnrollEvent) MessageID() string {
	return "enroll"
}

func (e EnrollEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s enrolled for owner %s", e.ServerID, e.OwnerID)
	}
	msg := fmt.Sprintf("enrollment of %s refused", e.Hostname)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EnrollEvent) Severity() Severity {
	return severity(e.Success)
}

func (e EnrollEvent) Facility() int {
	return FacilityAuthPriv
}

func (e EnrollEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAgent: {
			"hostname": e.Hostname,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "enroll",
			"result":    result(e.Success),
		},
	}
	if e.ServerID != "" {
		sd[SDIDAgent]["server"] = e.ServerID
	}
	if e.OwnerID != "" {
		sd[SDIDAuth] = map[string]string{"user": e.OwnerID}
	}
	return sd
}
