// Package migrations embeds the SQL schema applied by internal/infra/migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
