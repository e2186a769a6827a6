package store

import (
	"fmt"
	"strings"
)

// NewHistoryStore creates a history store based on the DSN.
// - Empty DSN: SQLite at data/docqa.db
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: SQLite at the specified path
func NewHistoryStore(dsn string) (HistoryStore, error) {
	if dsn == "" {
		return NewSQLiteStore("data/docqa.db")
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		hs, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return hs, nil
	}

	return NewSQLiteStore(dsn)
}
