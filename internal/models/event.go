package models

import (
	"errors"
	"time"
)

// IngestEventRequest is the POST /api/events payload. Everything except
// the event name is optional.
type IngestEventRequest struct {
	Event      string         `json:"event"`
	UserID     *string        `json:"user_id,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// Event is the persisted form of one analytics occurrence. A nil UserID
// means the event is unattributed; the timestamp is always set and
// always UTC.
type Event struct {
	Event      string         `json:"event"`
	UserID     *string        `json:"user_id,omitempty"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

// BuildEvent turns an inbound payload into a complete Event. This is a
// pure transform: `now` is the acceptance instant the caller observed,
// used when the payload carries no timestamp.
func BuildEvent(req IngestEventRequest, now time.Time) (Event, error) {
	if req.Event == "" {
		return Event{}, errors.New("event name required")
	}

	props := req.Properties
	if props == nil {
		props = map[string]any{}
	}

	ts := now.UTC()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return Event{}, errors.New("timestamp must be RFC3339")
		}
		ts = parsed.UTC()
	}

	return Event{
		Event:      req.Event,
		UserID:     req.UserID,
		Properties: props,
		Timestamp:  ts,
	}, nil
}
