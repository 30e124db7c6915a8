// Package model defines the database models for hostwatch.
//
// # Core Models
//
//   - User: account with a bcrypt password hash and one active install token
//   - Server: enrolled host keyed by server_{hostname}_{username}_{ip}, holding
//     the sealed shared secret and the last metrics snapshot
//   - Snapshot: the agent payload shape (cpu, memory, disks, host, network)
//
// # Database Schema
//
//   - users: accounts, unique on email and install_token
//   - servers: enrolled hosts, indexed by owner_id
//   - messages: audit events (see pkg/audit)
package model
