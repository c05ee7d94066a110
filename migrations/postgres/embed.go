// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones del esquema del back office.
//
//go:embed *.sql
var FS embed.FS
