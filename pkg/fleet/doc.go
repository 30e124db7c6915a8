// Package fleet implements the trust pipeline between owners and their
// agents.
//
// An owner holds one install token at a time (CurrentToken, RotateToken).
// An agent presents that token with its hostname, username and IP to
// Enroll, and receives a deterministic server id and a fresh shared
// secret. Every snapshot it pushes afterwards is accepted by Ingest only
// when the HMAC-SHA256 of the exact body under that secret matches the
// supplied signature. ListServers returns the latest snapshot of every
// server an owner holds.
//
// Failures are reported as *ValidationError, *AuthError or
// *InternalError so transports can map them without inspecting messages.
package fleet
