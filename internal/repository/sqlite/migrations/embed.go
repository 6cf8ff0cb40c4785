package migrations

import "embed"

// FS holds the SQLite schema files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
