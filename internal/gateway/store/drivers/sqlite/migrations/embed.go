// Package migrations embeds the SQLite schema migrations so the binary can
// bring any database file up to date on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
