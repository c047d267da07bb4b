//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Concurrent beacons for one post must all land in the summary, with the
// row lock serializing writers.
func TestCoreAPI_ConcurrentIngestionLosesNothing(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	require.NoError(t, resetDatabase(t, h.db))

	const (
		workers   = 8
		perWorker = 25
		total     = workers * perWorker
	)
	post := fmt.Sprintf("hot-post-%d", time.Now().UnixNano())

	var wg sync.WaitGroup
	errs := make(chan error, total)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				session := fmt.Sprintf("w%d-s%d", w, i%5)
				status, body := postJSON(t, h.client, h.baseURL+"/api/metrics", payload(post, session, 10, 50, "news.ycombinator.com"))
				if status != http.StatusOK {
					errs <- fmt.Errorf("status %d: %s", status, body)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	summary := getSummary(t, h, post)
	require.Equal(t, float64(total), summary["view_count"])
	require.Equal(t, float64(workers*5), summary["unique_visitors"])
	require.Equal(t, "10", summary["avg_reading_time_seconds"])
	require.Equal(t, "news.ycombinator.com", summary["top_referrer"])

	require.Equal(t, int64(total), countRows(t, h.db, "engagement_events", post))
	require.Equal(t, int64(workers*5), countRows(t, h.db, "engagement_sessions", post))
}
