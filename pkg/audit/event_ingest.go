package audit

import "fmt"

// IngestEvent records a refused snapshot. Accepted snapshots are counted
// in metrics rather than audited, one line per push would drown the trail.
type IngestEvent struct {
	ServerID     string
	ClientIP     string
	ErrorMessage string
}

func (e IngestEvent) MessageID() string {
	return "ingest"
}

func (e IngestEvent) Message() string {
	msg := fmt.Sprintf("snapshot from %s rejected", e.ServerID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e IngestEvent) Severity() Severity {
	return SeverityWarning
}

func (e IngestEvent) Facility() int {
	return FacilityAuth
}

func (e IngestEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAgent: {
			"server": e.ServerID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "ingest",
			"result":    "failure",
		},
	}
}
