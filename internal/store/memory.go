package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Memory is an in-memory Backend for tests and local development. It
// mirrors the Postgres store's observable behavior: insertion-order
// finds, subset filters, nil-keyed group buckets.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]Document
}

func NewMemory() *Memory {
	return &Memory{collections: map[string][]Document{}}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Collections(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Insert stores the document after a JSON round-trip so field values
// carry the same types a database read would produce.
func (m *Memory) Insert(_ context.Context, collection string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := ulid.Make().String()
	m.collections[collection] = append(m.collections[collection], Document{ID: id, Fields: fields})
	return id, nil
}

func (m *Memory) Find(_ context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	canon, err := canonicalFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var docs []Document
	for _, d := range m.collections[collection] {
		if matches(canon, d.Fields) {
			docs = append(docs, d)
		}
	}

	if opts.SortField != "" {
		field := opts.SortField
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareField(docs[i].Fields[field], docs[j].Fields[field])
			if opts.SortDesc {
				return c > 0
			}
			return c < 0
		})
	}
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := m.Find(ctx, collection, filter, FindOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (m *Memory) GroupCount(_ context.Context, collection string, field string, limit int) ([]Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type group struct {
		key   *string
		count int64
	}
	byKey := map[string]*group{}
	var nilGroup *group
	var order []*group

	for _, d := range m.collections[collection] {
		v, ok := d.Fields[field]
		if !ok || v == nil {
			if nilGroup == nil {
				nilGroup = &group{}
				order = append(order, nilGroup)
			}
			nilGroup.count++
			continue
		}
		s := fieldString(v)
		g := byKey[s]
		if g == nil {
			g = &group{key: &s}
			byKey[s] = g
			order = append(order, g)
		}
		g.count++
	}

	buckets := make([]Bucket, 0, len(order))
	for _, g := range order {
		buckets = append(buckets, Bucket{Key: g.key, Count: g.count})
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Count > buckets[j].Count })
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets, nil
}

// canonicalFilter round-trips the filter through JSON so filter values
// compare against stored values with matching types.
func canonicalFilter(filter Filter) (map[string]any, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]any(filter))
	if err != nil {
		return nil, err
	}
	canon := map[string]any{}
	if err := json.Unmarshal(raw, &canon); err != nil {
		return nil, err
	}
	return canon, nil
}

func matches(filter map[string]any, fields map[string]any) bool {
	for k, want := range filter {
		got, ok := fields[k]
		if !ok || !equalValue(want, got) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}

// compareField orders two field values. Timestamp strings compare as
// instants; everything else compares by string form.
func compareField(a, b any) int {
	as, bs := fieldString(a), fieldString(b)
	at, errA := time.Parse(time.RFC3339Nano, as)
	bt, errB := time.Parse(time.RFC3339Nano, bs)
	if errA == nil && errB == nil {
		return at.Compare(bt)
	}
	return strings.Compare(as, bs)
}

func fieldString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
