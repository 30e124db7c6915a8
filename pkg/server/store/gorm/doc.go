// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package, backed by PostgreSQL.
//
// Writes that must be atomic (server upsert, snapshot overwrite, install
// token replacement) are each a single SQL statement.
package gorm
