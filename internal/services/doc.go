// Package services implements the business logic layer of imgsqueeze.
//
// The CLI commands are thin: they build a configuration and hand it to a service.
//
// # Service Dependency Graph
//
//	cmd/imgsqueeze
//	    │
//	    ▼
//	Services Layer
//	    ├── RunService ─────► files, scheduler, compress, console, report, HistoryService
//	    └── HistoryService ─► store, store/migrations
//
// # RunService
//
// Run flow:
//
//	patterns ──► files.Expand ──► []string
//	                                 │ empty: "No input files, exiting." + ErrNoItems
//	                                 ▼
//	              scheduler.Run(ctx, items)  (task = Compressor.Compress,
//	                                 │         reporter = console.Reporter)
//	                                 ▼
//	                      summary line printed
//	                                 │
//	                ┌────────────────┴─────────────────┐
//	                ▼                                  ▼
//	      HistoryService.Record               report.Write
//	      (Output.HistoryDB set)              (Output.ReportFile set)
//
// Every run gets a uuid run id carried by all of its log lines. A worker fault in
// the scheduler fails the whole run: no summary is printed and nothing is recorded.
// History and report errors do not hide the summary; they are joined and returned.
//
// Usage:
//
//	svc := services.NewRunService(cfg, os.Stdout)
//	summary, err := svc.Run(ctx, []string{"photos/**/*.jpg"})
//
// # HistoryService
//
// HistoryService opens the DuckDB file, applies migrations, runs one operation
// and closes the database again. A run and its items are saved in one transaction.
//
// Usage:
//
//	h := services.NewHistoryService("history.duckdb")
//	runs, err := h.List(ctx, 10)
//	run, items, err := h.Get(ctx, runs[0].ID, models.ItemStatusFailed)
package services
