// Package migrations embeds the SQL schema migrations for the characters store.
package migrations

import "embed"

// FS holds the numbered up/down migration files in golang-migrate layout.
//
//go:embed *.sql
var FS embed.FS
