package analytics

import (
	"time"

	"github.com/lytikz/lytikz/internal/store"
)

// Normalize rewrites a stored document for transport: the store
// identifier becomes a string "id" field and any top-level instant value
// becomes its ISO-8601 string form. Property maps pass through as-is.
func Normalize(doc store.Document) map[string]any {
	out := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(time.RFC3339Nano)
		}
		out[k] = v
	}
	out["id"] = doc.ID
	return out
}

func normalizeAll(docs []store.Document) []map[string]any {
	items := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		items = append(items, Normalize(d))
	}
	return items
}
