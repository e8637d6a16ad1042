package analytics

import (
	"context"

	"github.com/lytikz/lytikz/internal/store"
)

const (
	listMinLimit      = 1
	listMaxLimit      = 500
	defaultQueryLimit = 100
)

// Querier serves bounded filtered retrieval over the event collection.
type Querier struct {
	st store.Store
}

func NewQuerier(st store.Store) *Querier {
	return &Querier{st: st}
}

// List returns up to limit events in insertion order. The limit is a
// hard bound, not clamped: out-of-range values are a caller error.
func (q *Querier) List(ctx context.Context, limit int) ([]map[string]any, error) {
	if limit < listMinLimit || limit > listMaxLimit {
		return nil, validationf("limit must be between %d and %d", listMinLimit, listMaxLimit)
	}

	docs, err := q.st.Find(ctx, eventCollection, nil, store.FindOptions{Limit: limit})
	if err != nil {
		return nil, storage("list events", err)
	}
	return normalizeAll(docs), nil
}

// Query returns events matching an exact-match field filter. The limit
// defaults to 100 when unset and, unlike List, has no upper bound.
func (q *Querier) Query(ctx context.Context, filter map[string]any, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	docs, err := q.st.Find(ctx, eventCollection, store.Filter(filter), store.FindOptions{Limit: limit})
	if err != nil {
		return nil, storage("query events", err)
	}
	return normalizeAll(docs), nil
}
