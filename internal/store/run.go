package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tupyy/imgsqueeze/internal/models"
	srvErrors "github.com/tupyy/imgsqueeze/pkg/errors"
)

var runColumns = []string{
	"id", "started_at", "finished_at", "workers", "items",
	"saved", "skipped", "failed", "remaining",
	"bytes_before", "bytes_after", "elapsed_ms",
}

// RunStore records one row per run.
type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Save(ctx context.Context, r models.RunSummary) error {
	_, err := s.db.ExecContext(ctx, queryInsertRun,
		r.ID, r.StartedAt.UTC(), r.FinishedAt.UTC(), r.Workers, r.Items,
		r.Saved, r.Skipped, r.Failed, r.Remaining,
		r.Before, r.After, r.Elapsed.Milliseconds(),
	)
	return err
}

func (s *RunStore) Get(ctx context.Context, id string) (*models.RunSummary, error) {
	runs, err := s.List(ctx, ByRunID(id))
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	return &runs[0], nil
}

func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.RunSummary, error) {
	builder := sq.Select(runColumns...).From("runs")
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

	var runs []models.RunSummary
	for rows.Next() {
		var (
			r         models.RunSummary
			elapsedMs int64
		)
		err := rows.Scan(
			&r.ID, &r.StartedAt, &r.FinishedAt, &r.Workers, &r.Items,
			&r.Saved, &r.Skipped, &r.Failed, &r.Remaining,
			&r.Before, &r.After, &elapsedMs,
		)
		if err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Delete removes a run and its items.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, queryDeleteRunItems, id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, queryDeleteRun, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return srvErrors.NewRunNotFoundError(id)
	}
	return nil
}
