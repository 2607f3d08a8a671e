// Package migrations embeds the SQL migrations for the local storage
// database so goose can run them from the binary.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
