package store

import "context"

// Filter selects documents by exact-match on fields. A nil or empty
// filter matches every document in the collection.
type Filter map[string]any

// Document is one stored record: the store-assigned identifier plus the
// decoded document body. The identifier is never part of Fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// FindOptions bounds and orders a Find. With an empty SortField the
// store returns documents in insertion order.
type FindOptions struct {
	Limit     int
	SortField string
	SortDesc  bool
}

// Bucket is one group in a GroupCount result. Key is nil for documents
// that lack the grouped field.
type Bucket struct {
	Key   *string
	Count int64
}

// Store is the collection-oriented capability surface the services
// consume: insert-one, filtered find, count, and group-by-count. It is
// constructor-injected into every service and must be safe for
// concurrent use.
type Store interface {
	Insert(ctx context.Context, collection string, doc any) (string, error)
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	GroupCount(ctx context.Context, collection string, field string, limit int) ([]Bucket, error)
}

// Backend adds the operational probes the HTTP layer uses on top of the
// service-facing Store surface.
type Backend interface {
	Store
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}
