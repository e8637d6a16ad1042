package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lytikz/lytikz/internal/models"
)

func TestBuildEventRequiresName(t *testing.T) {
	_, err := models.BuildEvent(models.IngestEventRequest{}, time.Now())
	require.Error(t, err)

	_, err = models.BuildEvent(models.IngestEventRequest{Event: ""}, time.Now())
	require.Error(t, err)
}

func TestBuildEventDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))

	ev, err := models.BuildEvent(models.IngestEventRequest{Event: "signup"}, now)
	require.NoError(t, err)

	assert.Equal(t, "signup", ev.Event)
	assert.Nil(t, ev.UserID)
	assert.NotNil(t, ev.Properties)
	assert.Empty(t, ev.Properties)
	assert.Equal(t, now.UTC(), ev.Timestamp)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
}

func TestBuildEventParsesTimestamp(t *testing.T) {
	req := models.IngestEventRequest{
		Event:     "login",
		Timestamp: "2026-01-15T09:00:00+02:00",
	}

	ev, err := models.BuildEvent(req, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 7, 0, 0, 0, time.UTC), ev.Timestamp)
}

func TestBuildEventRejectsBadTimestamp(t *testing.T) {
	req := models.IngestEventRequest{Event: "login", Timestamp: "yesterday"}
	_, err := models.BuildEvent(req, time.Now())
	require.Error(t, err)
}

func TestBuildEventKeepsProperties(t *testing.T) {
	props := map[string]any{"plan": "pro", "seats": 3, "nested": map[string]any{"a": true}}
	ev, err := models.BuildEvent(models.IngestEventRequest{Event: "upgrade", Properties: props}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, props, ev.Properties)
}
