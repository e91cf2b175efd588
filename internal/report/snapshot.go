package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a successful payload as received from the backend.
type Snapshot struct {
	ID        uuid.UUID       `json:"id"`
	Report    string          `json:"report"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Sink receives snapshots after each successful fetch.
type Sink interface {
	Record(ctx context.Context, snap Snapshot) error
}

// History lists recorded snapshots, newest first.
type History interface {
	List(ctx context.Context, report string, limit int) ([]Snapshot, error)
}
