package models

import "time"

// ItemStatus is the per-item result as shown to the user.
type ItemStatus string

const (
	// ItemStatusSaved - output written, smaller than the input
	ItemStatusSaved ItemStatus = "saved"
	// ItemStatusSkipped - compressed result was not smaller, nothing written
	ItemStatusSkipped ItemStatus = "skipped"
	// ItemStatusFailed - the task body returned an error
	ItemStatusFailed ItemStatus = "failed"
)

func (s ItemStatus) Value() string {
	return string(s)
}

// ItemResult holds the outcome of one processed file.
type ItemResult struct {
	Path      string
	Worker    int
	Status    ItemStatus
	Before    uint64
	After     uint64
	ErrorKind string
	Error     string
}

// Saved returns the bytes saved, 0 for skipped and failed items.
func (r ItemResult) Saved() uint64 {
	if r.Status != ItemStatusSaved || r.After >= r.Before {
		return 0
	}
	return r.Before - r.After
}

// RunSummary is the final summary of one run.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Workers    int
	Items      int
	Saved      int
	Skipped    int
	Failed     int
	Remaining  int
	Before     uint64
	After      uint64
	Elapsed    time.Duration
}

// SavedBytes is Before - After across saved items.
func (s RunSummary) SavedBytes() uint64 {
	if s.After >= s.Before {
		return 0
	}
	return s.Before - s.After
}
