package services

import (
	"context"
	"fmt"

	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/store"
	"github.com/tupyy/imgsqueeze/internal/store/migrations"
)

// HistoryService reads and writes the run history kept in a DuckDB file.
type HistoryService struct {
	path string
}

func NewHistoryService(path string) *HistoryService {
	return &HistoryService{path: path}
}

// Record saves a run and its items in one transaction.
func (h *HistoryService) Record(ctx context.Context, summary models.RunSummary, items []models.ItemResult) error {
	return h.withStore(ctx, func(s *store.Store) error {
		return s.WithTx(ctx, func(tx *store.Store) error {
			if err := tx.Runs().Save(ctx, summary); err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			if err := tx.Items().SaveAll(ctx, summary.ID, items); err != nil {
				return fmt.Errorf("failed to save run items: %w", err)
			}
			return nil
		})
	})
}

// List returns the most recent runs, newest first. A zero limit returns every run.
func (h *HistoryService) List(ctx context.Context, limit uint64) ([]models.RunSummary, error) {
	var runs []models.RunSummary
	err := h.withStore(ctx, func(s *store.Store) error {
		opts := []store.ListOption{store.WithDefaultSort()}
		if limit > 0 {
			opts = append(opts, store.WithLimit(limit))
		}
		var err error
		runs, err = s.Runs().List(ctx, opts...)
		return err
	})
	return runs, err
}

// Get returns one run with its items, optionally filtered by status.
func (h *HistoryService) Get(ctx context.Context, id string, statuses ...models.ItemStatus) (*models.RunSummary, []models.ItemResult, error) {
	var (
		run   *models.RunSummary
		items []models.ItemResult
	)
	err := h.withStore(ctx, func(s *store.Store) error {
		var err error
		if run, err = s.Runs().Get(ctx, id); err != nil {
			return err
		}
		items, err = s.Items().List(ctx, id, store.ByStatus(statuses...))
		return err
	})
	return run, items, err
}

// Delete removes a run and its items.
func (h *HistoryService) Delete(ctx context.Context, id string) error {
	return h.withStore(ctx, func(s *store.Store) error {
		return s.WithTx(ctx, func(tx *store.Store) error {
			return tx.Runs().Delete(ctx, id)
		})
	})
}

func (h *HistoryService) withStore(ctx context.Context, fn func(s *store.Store) error) error {
	db, err := store.NewDB(h.path)
	if err != nil {
		return err
	}
	s := store.NewStore(db)
	defer s.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	return fn(s)
}
