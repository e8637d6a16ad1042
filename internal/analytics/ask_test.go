package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lytikz/lytikz/internal/analytics"
	"github.com/lytikz/lytikz/internal/store"
)

// seedScenario loads the canonical fixture: two signups and one login.
func seedScenario(t *testing.T, mem *store.Memory) *analytics.AskEngine {
	t.Helper()
	ing := analytics.NewIngestor(mem)
	seed(t, ing, "signup", strptr("u1"), "2026-02-01T10:00:00Z")
	seed(t, ing, "signup", strptr("u2"), "2026-02-01T11:00:00Z")
	seed(t, ing, "login", strptr("u1"), "2026-02-01T12:00:00Z")
	return analytics.NewAskEngine(mem)
}

func TestAskTotalCount(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "total events?", "")
	require.NoError(t, err)
	assert.Equal(t, "Total events: 3", ans.Answer)
	require.NotNil(t, ans.Count)
	assert.EqualValues(t, 3, *ans.Count)
	assert.Empty(t, ans.Items)
}

func TestAskTotalCountWithEventFilter(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "how many signup", "signup")
	require.NoError(t, err)
	assert.Equal(t, "Total events: 2", ans.Answer)
	require.NotNil(t, ans.Count)
	assert.EqualValues(t, 2, *ans.Count)
}

// A question matching several intents resolves to the earliest rule:
// "total events by user" counts totals, it does not group by user.
func TestAskPriorityOrder(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "total events by user", "")
	require.NoError(t, err)
	assert.Equal(t, "Total events: 3", ans.Answer)
	require.NotNil(t, ans.Count)
}

func TestAskByUser(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "events per user", "")
	require.NoError(t, err)
	assert.Equal(t, "Events by user", ans.Answer)
	require.Len(t, ans.Items, 2)

	// Sorted by count descending: u1 has two events.
	assert.Equal(t, "u1", deref(t, ans.Items[0]["user_id"]))
	assert.EqualValues(t, 2, ans.Items[0]["count"])
	assert.Equal(t, "u2", deref(t, ans.Items[1]["user_id"]))
	assert.EqualValues(t, 1, ans.Items[1]["count"])
}

func TestAskByUserKeepsAnonymousGroup(t *testing.T) {
	mem := store.NewMemory()
	ing := analytics.NewIngestor(mem)
	seed(t, ing, "pageview", nil, "2026-02-01T10:00:00Z")
	seed(t, ing, "pageview", nil, "2026-02-01T11:00:00Z")
	seed(t, ing, "pageview", strptr("u1"), "2026-02-01T12:00:00Z")
	engine := analytics.NewAskEngine(mem)

	ans, err := engine.Ask(context.Background(), "count by user", "")
	require.NoError(t, err)
	require.Len(t, ans.Items, 2)

	assert.Nil(t, ans.Items[0]["user_id"])
	assert.EqualValues(t, 2, ans.Items[0]["count"])
	assert.Equal(t, "u1", deref(t, ans.Items[1]["user_id"]))
	assert.EqualValues(t, 1, ans.Items[1]["count"])
}

func TestAskByEventName(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "events by name", "")
	require.NoError(t, err)
	assert.Equal(t, "Events by event name", ans.Answer)
	require.Len(t, ans.Items, 2)

	assert.Equal(t, "signup", deref(t, ans.Items[0]["event"]))
	assert.EqualValues(t, 2, ans.Items[0]["count"])
	assert.Equal(t, "login", deref(t, ans.Items[1]["event"]))
	assert.EqualValues(t, 1, ans.Items[1]["count"])
}

func TestAskFallbackOnGibberish(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "asdkjasdlkj", "")
	require.NoError(t, err)
	assert.Equal(t, "Showing recent events", ans.Answer)
	require.Len(t, ans.Items, 3)

	// Newest first, projected to id/event/user_id/timestamp only.
	var prev time.Time
	for i, it := range ans.Items {
		_, hasID := it["id"].(string)
		assert.True(t, hasID, "item %d id", i)
		assert.NotContains(t, it, "properties")

		ts, err := time.Parse(time.RFC3339Nano, it["timestamp"].(string))
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, ts.After(prev), "items must be newest first")
		}
		prev = ts
	}
	assert.Equal(t, "login", ans.Items[0]["event"])
}

func TestAskFallbackCapsAtTwenty(t *testing.T) {
	mem := store.NewMemory()
	ing := analytics.NewIngestor(mem)
	for i := 0; i < 25; i++ {
		seed(t, ing, "tick", nil, fmt.Sprintf("2026-02-01T10:%02d:00Z", i))
	}
	engine := analytics.NewAskEngine(mem)

	ans, err := engine.Ask(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Showing recent events", ans.Answer)
	assert.Len(t, ans.Items, 20)
}

// "how many" without an event mention or filter is not a count question.
func TestAskHowManyNeedsEventContext(t *testing.T) {
	engine := seedScenario(t, store.NewMemory())

	ans, err := engine.Ask(context.Background(), "how many foos", "")
	require.NoError(t, err)
	assert.Equal(t, "Showing recent events", ans.Answer)
}

// deref unwraps the *string group keys the engine passes through.
func deref(t *testing.T, v any) string {
	t.Helper()
	switch s := v.(type) {
	case string:
		return s
	case *string:
		require.NotNil(t, s)
		return *s
	default:
		t.Fatalf("unexpected key type %T", v)
		return ""
	}
}
