package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/tupyy/imgsqueeze/internal/models"
)

// ItemStore records the per-item results of a run, in completion order.
type ItemStore struct {
	db QueryInterceptor
}

func NewItemStore(db QueryInterceptor) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) SaveAll(ctx context.Context, runID string, items []models.ItemResult) error {
	for i, it := range items {
		_, err := s.db.ExecContext(ctx, queryInsertItem,
			runID, i, it.Path, it.Worker, it.Status.Value(),
			it.Before, it.After, nullable(it.ErrorKind), nullable(it.Error),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ItemStore) List(ctx context.Context, runID string, opts ...ListOption) ([]models.ItemResult, error) {
	builder := sq.Select("path", "worker", "status", "bytes_before", "bytes_after", "error_kind", "error").
		From("run_items").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("seq")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ItemResult
	for rows.Next() {
		var (
			it        models.ItemResult
			status    string
			errorKind sql.NullString
			errorMsg  sql.NullString
		)
		if err := rows.Scan(&it.Path, &it.Worker, &status, &it.Before, &it.After, &errorKind, &errorMsg); err != nil {
			return nil, err
		}
		it.Status = models.ItemStatus(status)
		it.ErrorKind = errorKind.String
		it.Error = errorMsg.String
		items = append(items, it)
	}

	return items, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
