package store

import (
	"context"
	"database/sql"
	"fmt"

	"pwpolicy/internal/policy/models"
)

// dialect carries the statements that differ between relational backends.
type dialect struct {
	name   string
	exists string
	insert string
}

// SQLStore reads and appends rows of the legacy (uid, hash, date, ip) table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *SQLStore) Exists(ctx context.Context, userID, fingerprint string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.dialect.exists, userID, fingerprint).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check %s password history: %w", s.dialect.name, err)
	}
	return count > 0, nil
}

func (s *SQLStore) Insert(ctx context.Context, record models.HistoryRecord) error {
	_, err := s.db.ExecContext(ctx, s.dialect.insert,
		record.UserID,
		record.Fingerprint,
		record.CreatedAt,
		record.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("insert %s password history: %w", s.dialect.name, err)
	}
	return nil
}
