package analytics

import (
	"context"
	"time"

	"github.com/lytikz/lytikz/internal/models"
	"github.com/lytikz/lytikz/internal/store"
)

// eventCollection is the single collection this service family reads
// and writes.
const eventCollection = "event"

// Ingestor validates and completes inbound events and hands them to the
// store. Duplicate submissions produce duplicate records; there is no
// idempotency contract.
type Ingestor struct {
	st  store.Store
	now func() time.Time
}

func NewIngestor(st store.Store) *Ingestor {
	return &Ingestor{st: st, now: time.Now}
}

// Ingest persists one event and returns the store-assigned id.
func (i *Ingestor) Ingest(ctx context.Context, req models.IngestEventRequest) (string, error) {
	ev, err := models.BuildEvent(req, i.now())
	if err != nil {
		return "", validationf("%v", err)
	}

	id, err := i.st.Insert(ctx, eventCollection, ev)
	if err != nil {
		return "", storage("insert event", err)
	}
	return id, nil
}
