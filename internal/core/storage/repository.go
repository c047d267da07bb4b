package storage

import (
	"context"
	"errors"
	"time"

	"github.com/skshmgpt/folio/internal/core/engagement"
)

var (
	// ErrNotFound is returned by GetSummary when no event was ever accepted for the post.
	// Callers treat it as "no data yet", not as a failure.
	ErrNotFound = errors.New("summary not found")

	// ErrUnavailable marks persistence failures: unreachable backend, open circuit breaker,
	// exhausted conflict retries. The event is dropped; nothing is queued.
	ErrUnavailable = errors.New("store unavailable")
)

// SummaryStore folds engagement events into per-post summaries and serves them back.
//
// Implementations must serialize RecordEvent per PostID so that concurrent writers
// for the same post never lose updates, while writers for different posts proceed
// independently. Each call folds one event in O(1); no implementation re-reads the
// event history of a post on write.
type SummaryStore interface {
	// RecordEvent validates evt and folds it into its post's summary.
	// Returns a *engagement.ValidationError without writing when a required field is missing.
	RecordEvent(ctx context.Context, evt *engagement.Event) error

	// GetSummary returns a copy of the summary for postID, or ErrNotFound.
	GetSummary(ctx context.Context, postID string) (*engagement.Summary, error)

	// GetAllSummaries returns copies of every summary keyed by post id.
	GetAllSummaries(ctx context.Context) (map[string]*engagement.Summary, error)
}

// Backend is a SummaryStore with a lifecycle. It is created once at startup,
// injected into the HTTP services and closed at shutdown.
type Backend interface {
	SummaryStore

	// Ping reports whether the backend can currently serve requests.
	Ping(ctx context.Context) error

	// Close releases connections and file handles.
	Close() error
}

// Prepare validates and normalizes evt before a backend folds it.
// A zero ReceivedAt is stamped with the current time so that every accepted
// event advances LastUpdated.
func Prepare(evt *engagement.Event) error {
	if evt == nil {
		return &engagement.ValidationError{Field: "event"}
	}
	if err := evt.Validate(); err != nil {
		return err
	}
	evt.Normalize()
	if evt.ReceivedAt.IsZero() {
		evt.ReceivedAt = time.Now().UTC()
	}
	return nil
}
