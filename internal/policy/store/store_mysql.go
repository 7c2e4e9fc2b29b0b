package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// NewMySQL returns a store over the legacy MySQL table, e.g. "hashes" or
// "bdalunos.hashes".
func NewMySQL(db *sql.DB, table string) (*SQLStore, error) {
	parts, err := splitTable(table)
	if err != nil {
		return nil, err
	}
	for i, p := range parts {
		parts[i] = "`" + p + "`"
	}
	quoted := strings.Join(parts, ".")

	return &SQLStore{
		db: db,
		dialect: dialect{
			name:   "mysql",
			exists: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE uid = ? AND hash = ?", quoted),
			insert: fmt.Sprintf("INSERT INTO %s (uid, hash, date, ip) VALUES (?, ?, ?, ?)", quoted),
		},
	}, nil
}
