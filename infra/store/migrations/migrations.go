// Package migrations embeds the schema of the local state database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
