// Package db carries the SQL schema migrations for hostwatch.
package db

import "embed"

// Migrations holds the SQL migrations compiled into builds using the
// embed_migrations tag.
//
//go:embed migrations/*.sql
var Migrations embed.FS
