// Package migrations embeds the schema scripts for the quiz tables.
package migrations

import "embed"

// FS holds the goose migration files.
//
//go:embed *.sql
var FS embed.FS
