// Package store provides storage abstractions for the hostwatch server.
//
// This package defines interfaces for credential storage, allowing the
// fleet service and endpoints to be decoupled from the storage backend.
//
// # Available Stores
//
//   - UsersStore: accounts and install tokens
//   - ServersStore: enrolled servers, shared secrets and last snapshots
//   - HealthStore: connectivity checks
//
// # Implementations
//
//   - store/gorm: PostgreSQL via GORM
//   - store/badger: embedded single-node store via Badger
//
// # Usage
//
//	users := gormstore.NewUsersStore(db)
//	u, err := users.FindUserByInstallToken(ctx, token)
//	if errors.Is(err, store.ErrUserNotFound) {
//	    // reject enrollment
//	}
package store
