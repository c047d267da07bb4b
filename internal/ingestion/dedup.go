package ingestion

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Deduper remembers recently stored (post, session) pairs so that a beacon
// retried by the browser inside the window is not counted as a second view.
//
// Best effort: two duplicates racing in the same instant may both pass, and
// the cache may evict a pair before its window ends.
type Deduper struct {
	cache  *ristretto.Cache[string, struct{}]
	window time.Duration
}

// NewDeduper creates a deduper holding at most capacity pairs for window each.
func NewDeduper(window time.Duration, capacity int64) (*Deduper, error) {
	if window <= 0 {
		return nil, fmt.Errorf("dedup window must be positive, got %s", window)
	}
	if capacity <= 0 {
		capacity = 10000
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, struct{}]{
		NumCounters:        capacity * 10,
		MaxCost:            capacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dedup cache: %w", err)
	}

	return &Deduper{cache: cache, window: window}, nil
}

func dedupKey(postID, sessionID string) string {
	return postID + "\x00" + sessionID
}

// Seen reports whether the pair was remembered within the window.
func (d *Deduper) Seen(postID, sessionID string) bool {
	_, ok := d.cache.Get(dedupKey(postID, sessionID))
	return ok
}

// Remember records the pair after it was stored.
func (d *Deduper) Remember(postID, sessionID string) {
	d.cache.SetWithTTL(dedupKey(postID, sessionID), struct{}{}, 1, d.window)
	d.cache.Wait()
}

// Close releases the cache's background goroutines.
func (d *Deduper) Close() {
	d.cache.Close()
}
