package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, started_at, finished_at, workers, items, saved, skipped, failed, remaining, bytes_before, bytes_after, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryDeleteRunItems = `DELETE FROM run_items WHERE run_id = ?`

	queryDeleteRun = `DELETE FROM runs WHERE id = ?`
)

// Item queries
const (
	queryInsertItem = `
		INSERT INTO run_items (run_id, seq, path, worker, status, bytes_before, bytes_after, error_kind, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
)
