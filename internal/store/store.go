package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Store provides access to all storage repositories.
type Store struct {
	db    *sql.DB
	runs  *RunStore
	items *ItemStore
}

func NewStore(db *sql.DB) *Store {
	q := newLoggingInterceptor(db)
	return &Store{
		db:    db,
		runs:  NewRunStore(q),
		items: NewItemStore(q),
	}
}

func (s *Store) Runs() *RunStore {
	return s.runs
}

func (s *Store) Items() *ItemStore {
	return s.items
}

// WithTx runs fn with stores bound to a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	q := newLoggingInterceptor(tx)
	txStore := &Store{db: s.db, runs: NewRunStore(q), items: NewItemStore(q)}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
