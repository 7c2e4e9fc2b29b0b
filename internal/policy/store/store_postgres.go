package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// NewPostgres returns a store over a PostgreSQL table with the legacy columns.
func NewPostgres(db *sql.DB, table string) (*SQLStore, error) {
	parts, err := splitTable(table)
	if err != nil {
		return nil, err
	}
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	quoted := strings.Join(parts, ".")

	return &SQLStore{
		db: db,
		dialect: dialect{
			name:   "postgres",
			exists: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE uid = $1 AND hash = $2", quoted),
			insert: fmt.Sprintf("INSERT INTO %s (uid, hash, date, ip) VALUES ($1, $2, $3, $4)", quoted),
		},
	}, nil
}

// PostgresSchema creates table if it does not exist. Used by tests and
// fresh deployments; the legacy MySQL table is managed elsewhere.
func PostgresSchema(table string) (string, error) {
	parts, err := splitTable(table)
	if err != nil {
		return "", err
	}
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	uid  TEXT NOT NULL,
	hash TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	ip   TEXT NOT NULL
)`, strings.Join(parts, ".")), nil
}
