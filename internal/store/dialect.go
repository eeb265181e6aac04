package store

import (
	"strconv"
	"strings"
)

// dialect holds the statements that differ between the supported drivers.
type dialect struct {
	schema string
	upsert string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		schema: `CREATE TABLE IF NOT EXISTS programs (
	name TEXT PRIMARY KEY,
	wire TEXT NOT NULL,
	result TEXT,
	updated_at INTEGER NOT NULL
)`,
		upsert: `INSERT INTO programs (name, wire, result, updated_at) VALUES (?, ?, NULL, ?)
ON CONFLICT(name) DO UPDATE SET wire = excluded.wire, result = NULL, updated_at = excluded.updated_at`,
	},
	"mysql": {
		schema: `CREATE TABLE IF NOT EXISTS programs (
	name VARCHAR(255) NOT NULL PRIMARY KEY,
	wire LONGTEXT NOT NULL,
	result LONGTEXT NULL,
	updated_at BIGINT NOT NULL
)`,
		upsert: `INSERT INTO programs (name, wire, result, updated_at) VALUES (?, ?, NULL, ?)
ON DUPLICATE KEY UPDATE wire = VALUES(wire), result = NULL, updated_at = VALUES(updated_at)`,
	},
	"postgres": {
		schema: `CREATE TABLE IF NOT EXISTS programs (
	name TEXT PRIMARY KEY,
	wire TEXT NOT NULL,
	result TEXT,
	updated_at BIGINT NOT NULL
)`,
		upsert: `INSERT INTO programs (name, wire, result, updated_at) VALUES (?, ?, NULL, ?)
ON CONFLICT (name) DO UPDATE SET wire = EXCLUDED.wire, result = NULL, updated_at = EXCLUDED.updated_at`,
		numbered: true,
	},
}

// rebind rewrites ? placeholders for drivers that number them. Queries in this
// package never carry a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
