// Package submissions is the append-only audit trail of what visitors
// submitted through the site's tools. Nothing reads it back on the request
// path; it exists for manual inspection.
package submissions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindContact   Kind = "contact_submissions"
	KindMaturity  Kind = "maturity_assessments"
	KindReadiness Kind = "readiness_assessments"
	KindROI       Kind = "roi_calculations"
	KindNarrative Kind = "narrative_reports"
)

var Kinds = []Kind{KindContact, KindMaturity, KindReadiness, KindROI, KindNarrative}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

type Entry struct {
	ID        uuid.UUID       `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Log appends entries and lists them back per kind in insertion order.
// There is no deduplication and no size bound.
type Log interface {
	Append(ctx context.Context, kind Kind, payload any) (Entry, error)
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Close() error
}

var now = func() time.Time { return time.Now().UTC() }

func newEntry(kind Kind, payload any) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("unknown submission kind %q", kind)
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Entry{ID: uuid.New(), Kind: kind, Payload: blob, CreatedAt: now()}, nil
}
