// Package db embeds the SQL migrations applied by pg.Migrate.
package db

import "embed"

// Migrations holds the goose migration files under "migrations/".
//
//go:embed migrations/*.sql
var Migrations embed.FS
