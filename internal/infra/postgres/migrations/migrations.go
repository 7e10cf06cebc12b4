// Package migrations registers the schema migrations applied by the migrate command.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set of schema changes.
var Migrations = migrate.NewMigrations()
