package database

import "embed"

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS
