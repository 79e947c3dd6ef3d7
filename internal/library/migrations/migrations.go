// Package migrations embeds the zone library schema for each SQL dialect.
package migrations

import "embed"

// FS holds one directory of goose migrations per dialect: postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
