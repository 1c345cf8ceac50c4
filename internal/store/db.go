package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

// NewDB opens a DuckDB database. An empty path or ":memory:" opens an in-memory database.
func NewDB(path string) (*sql.DB, error) {
	if path == ":memory:" {
		path = ""
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// QueryInterceptor is the subset of *sql.DB and *sql.Tx used by the stores.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type loggingInterceptor struct {
	db  QueryInterceptor
	log *zap.SugaredLogger
}

func newLoggingInterceptor(db QueryInterceptor) *loggingInterceptor {
	return &loggingInterceptor{db: db, log: zap.S().Named("store")}
}

func (l *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	l.log.Debugw("query", "sql", query, "args", args)
	return l.db.QueryContext(ctx, query, args...)
}

func (l *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	l.log.Debugw("query row", "sql", query, "args", args)
	return l.db.QueryRowContext(ctx, query, args...)
}

func (l *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	l.log.Debugw("exec", "sql", query, "args", args)
	return l.db.ExecContext(ctx, query, args...)
}
