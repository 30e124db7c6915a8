// Package audit provides audit logging for hostwatch trust operations.
//
// Every decision that grants or refuses trust is recorded as an RFC5424
// syslog line: account creation and login, install token reads and
// rotations, agent enrollment and snapshot ingestion.
//
// # Sinks
//
// Lines are always written to the logger's writer (stdout by default).
// Events can additionally be persisted to the messages table when
// AUDIT_DATABASE_URL is set, and fanned out to a NATS subject when a
// publisher is registered with AddSink.
//
// # Usage
//
//	audit.Log(audit.EnrollEvent{ServerID: id, OwnerID: owner, ClientIP: ip, Success: true})
package audit
