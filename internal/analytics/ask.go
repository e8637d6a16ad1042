package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/lytikz/lytikz/internal/store"
)

const (
	byUserLimit  = 20
	byEventLimit = 50
	recentLimit  = 20
)

// Answer is the Ask response: a human-readable sentence plus whichever
// structured payload the matched intent produces.
type Answer struct {
	Answer string           `json:"answer"`
	Count  *int64           `json:"count,omitempty"`
	Items  []map[string]any `json:"items,omitempty"`
}

// rule pairs an intent predicate with its execution strategy. The
// predicate sees the lower-cased, trimmed question and the optional
// event-name filter.
type rule struct {
	match func(q string, eventName string) bool
	run   func(ctx context.Context, eventName string) (Answer, error)
}

// AskEngine answers free-text analytic questions by substring
// classification over a fixed set of intents. It is deliberately not a
// language model: four canned shapes, first match wins.
type AskEngine struct {
	st    store.Store
	rules []rule
}

func NewAskEngine(st store.Store) *AskEngine {
	e := &AskEngine{st: st}
	// Order is load-bearing: a question matching several rules resolves
	// to the earliest one, so "total events by user" counts totals.
	e.rules = []rule{
		{match: matchTotal, run: e.totalCount},
		{match: matchByUser, run: e.eventsByUser},
		{match: matchByEvent, run: e.eventsByName},
	}
	return e
}

// Ask classifies the question and executes the matched strategy. An
// unrecognized or empty question falls back to recent events and is
// never an error.
func (e *AskEngine) Ask(ctx context.Context, question string, eventName string) (Answer, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, r := range e.rules {
		if r.match(q, eventName) {
			return r.run(ctx, eventName)
		}
	}
	return e.recentEvents(ctx)
}

func matchTotal(q string, eventName string) bool {
	if strings.Contains(q, "total") {
		return true
	}
	return strings.Contains(q, "how many") && (strings.Contains(q, "event") || eventName != "")
}

func matchByUser(q string, _ string) bool {
	return strings.Contains(q, "by user") || strings.Contains(q, "per user")
}

func matchByEvent(q string, _ string) bool {
	return strings.Contains(q, "by event") || strings.Contains(q, "per event") ||
		strings.Contains(q, "events by name")
}

func (e *AskEngine) totalCount(ctx context.Context, eventName string) (Answer, error) {
	var filter store.Filter
	if eventName != "" {
		filter = store.Filter{"event": eventName}
	}

	count, err := e.st.Count(ctx, eventCollection, filter)
	if err != nil {
		return Answer{}, storage("count events", err)
	}
	return Answer{Answer: fmt.Sprintf("Total events: %d", count), Count: &count}, nil
}

func (e *AskEngine) eventsByUser(ctx context.Context, _ string) (Answer, error) {
	buckets, err := e.st.GroupCount(ctx, eventCollection, "user_id", byUserLimit)
	if err != nil {
		return Answer{}, storage("group events by user", err)
	}

	items := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		// b.Key stays nil for anonymous events; null is a valid group key.
		items = append(items, map[string]any{"user_id": b.Key, "count": b.Count})
	}
	return Answer{Answer: "Events by user", Items: items}, nil
}

func (e *AskEngine) eventsByName(ctx context.Context, _ string) (Answer, error) {
	buckets, err := e.st.GroupCount(ctx, eventCollection, "event", byEventLimit)
	if err != nil {
		return Answer{}, storage("group events by name", err)
	}

	items := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		items = append(items, map[string]any{"event": b.Key, "count": b.Count})
	}
	return Answer{Answer: "Events by event name", Items: items}, nil
}

// recentFields is the fallback projection; "id" is attached by Normalize.
var recentFields = []string{"event", "user_id", "timestamp"}

func (e *AskEngine) recentEvents(ctx context.Context) (Answer, error) {
	docs, err := e.st.Find(ctx, eventCollection, nil, store.FindOptions{
		Limit:     recentLimit,
		SortField: "timestamp",
		SortDesc:  true,
	})
	if err != nil {
		return Answer{}, storage("find recent events", err)
	}

	items := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		full := Normalize(d)
		item := map[string]any{"id": full["id"]}
		for _, f := range recentFields {
			if v, ok := full[f]; ok {
				item[f] = v
			}
		}
		items = append(items, item)
	}
	return Answer{Answer: "Showing recent events", Items: items}, nil
}
