package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is wrapped with the entity name by store methods.
var ErrNotFound = errors.New("not found")

// ErrOrderOutOfRange is returned by reorder operations before any mutation.
var ErrOrderOutOfRange = errors.New("order out of range")

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
