// Package store implements the run history of imgsqueeze.
//
// History is optional: it is enabled by pointing Output.HistoryDB at a DuckDB
// file. Each run writes one row to runs and one row per processed item to
// run_items, inside a single transaction.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│           RunStore             │           ItemStore            │
//	│              ▼                 │              ▼                 │
//	│             runs               │           run_items            │
//	├────────────────────────────────┴────────────────────────────────┤
//	│          loggingInterceptor (QueryInterceptor, debug log)       │
//	│                              ▼                                  │
//	│                    *sql.DB or *sql.Tx (duckdb)                  │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  One summary row per run, keyed by run id   │
//	│  run_items         │  Per-item status and sizes, keyed by        │
//	│                    │  (run_id, seq) where seq is completion order│
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := store.NewDB(path)
//	migrations.Run(ctx, db)
//	s := store.NewStore(db)
//
// # List Options
//
// RunStore.List and ItemStore.List use the functional options pattern. Each
// ListOption modifies a squirrel.SelectBuilder:
//
//	runs, err := s.Runs().List(ctx,
//	    store.WithDefaultSort(),
//	    store.WithLimit(10),
//	)
//
//	failed, err := s.Items().List(ctx, runID, store.ByStatus(models.ItemStatusFailed))
//
// # Transactions
//
// WithTx binds fresh RunStore and ItemStore instances to one transaction:
//
//	err := s.WithTx(ctx, func(tx *store.Store) error {
//	    if err := tx.Runs().Save(ctx, summary); err != nil {
//	        return err
//	    }
//	    return tx.Items().SaveAll(ctx, summary.ID, items)
//	})
package store
