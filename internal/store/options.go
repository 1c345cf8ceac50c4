package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/tupyy/imgsqueeze/internal/models"
)

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByRunID(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"id": id})
	}
}

func ByStatus(statuses ...models.ItemStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, s.Value())
		}
		return b.Where(sq.Eq{"status": values})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort orders runs newest first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("started_at DESC", "id")
	}
}
