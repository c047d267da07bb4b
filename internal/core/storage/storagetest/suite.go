// Package storagetest is a conformance suite every storage.SummaryStore
// implementation runs from its own tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/skshmgpt/folio/internal/core/engagement"
	"github.com/skshmgpt/folio/internal/core/storage"
)

// Factory returns a fresh, empty store. Cleanup is the factory's job (t.Cleanup).
type Factory func(t *testing.T) storage.SummaryStore

// Run executes every conformance case against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("two session scenario", func(t *testing.T) { testTwoSessionScenario(t, newStore(t)) })
	t.Run("repeated session counts once", func(t *testing.T) { testRepeatedSession(t, newStore(t)) })
	t.Run("missing summary is not found", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("validation failure writes nothing", func(t *testing.T) { testValidation(t, newStore(t)) })
	t.Run("reads are idempotent", func(t *testing.T) { testIdempotentRead(t, newStore(t)) })
	t.Run("returned summaries are copies", func(t *testing.T) { testCopies(t, newStore(t)) })
	t.Run("concurrent writers lose no updates", func(t *testing.T) { testConcurrentWriters(t, newStore(t)) })
	t.Run("posts are independent", func(t *testing.T) { testPostsIndependent(t, newStore(t)) })
	t.Run("huge attention is capped", func(t *testing.T) { testHugeAttention(t, newStore(t)) })
	t.Run("zero receive time still advances last updated", func(t *testing.T) { testZeroReceivedAt(t, newStore(t)) })
	t.Run("ids containing NUL do not collide", func(t *testing.T) { testNULIDs(t, newStore(t)) })
}

// Event builds a valid event for tests.
func Event(post, session string, attention, scroll *int64, referrer string, at time.Time) *engagement.Event {
	return &engagement.Event{
		ID:               fmt.Sprintf("%s-%s-%d", post, session, at.UnixNano()),
		PostID:           post,
		SessionID:        session,
		ObservedAt:       at,
		AttentionSeconds: attention,
		MaxScrollPercent: scroll,
		Referrer:         referrer,
		ReceivedAt:       at,
	}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

var baseTime = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func testTwoSessionScenario(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()

	require.NoError(t, store.RecordEvent(ctx, Event("a", "s1", Int64(30), Int64(50), "", baseTime)))
	require.NoError(t, store.RecordEvent(ctx, Event("a", "s2", Int64(90), Int64(100), "google.com", baseTime.Add(time.Second))))

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "a", s.PostID)
	require.Equal(t, int64(2), s.ViewCount)
	require.Equal(t, int64(2), s.UniqueSessionCount)
	require.True(t, decimal.NewFromInt(60).Equal(s.AverageAttentionSeconds()), s.AverageAttentionSeconds().String())
	require.True(t, decimal.NewFromInt(75).Equal(s.AverageScrollPercent()), s.AverageScrollPercent().String())
	require.Equal(t, map[string]int64{"direct": 1, "google.com": 1}, s.ReferrerCounts())
	require.Equal(t, "google.com", s.TopReferrer())
	require.True(t, s.LastUpdated.Equal(baseTime.Add(time.Second)), s.LastUpdated.String())
}

func testRepeatedSession(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordEvent(ctx, Event("a", "same", nil, nil, "t.co", baseTime.Add(time.Duration(i)*time.Second))))
	}

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(3), s.ViewCount)
	require.Equal(t, int64(1), s.UniqueSessionCount)
	require.Equal(t, int64(0), s.AttentionCount)
	require.True(t, s.AverageAttentionSeconds().IsZero())
}

func testNotFound(t *testing.T, store storage.SummaryStore) {
	_, err := store.GetSummary(context.Background(), "never-seen")
	require.ErrorIs(t, err, storage.ErrNotFound)

	all, err := store.GetAllSummaries(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func testValidation(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()

	bad := []*engagement.Event{
		Event("", "s1", nil, nil, "", baseTime),
		Event("a", "", nil, nil, "", baseTime),
		Event("a", "s1", nil, nil, "", time.Time{}),
		Event("a\x00b", "s1", nil, nil, "", baseTime),
		Event("a", "s1\x00x", nil, nil, "", baseTime),
	}
	for _, evt := range bad {
		err := store.RecordEvent(ctx, evt)
		var vErr *engagement.ValidationError
		require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	}

	_, err := store.GetSummary(ctx, "a")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testIdempotentRead(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()
	require.NoError(t, store.RecordEvent(ctx, Event("a", "s1", Int64(12), Int64(34), "x", baseTime)))

	first, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	second, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, first.ViewCount, second.ViewCount)
	require.Equal(t, first.UniqueSessionCount, second.UniqueSessionCount)
	require.Equal(t, first.ReferrerCounts(), second.ReferrerCounts())
	require.True(t, first.AverageAttentionSeconds().Equal(second.AverageAttentionSeconds()))
	require.True(t, first.LastUpdated.Equal(second.LastUpdated))
}

func testCopies(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()
	require.NoError(t, store.RecordEvent(ctx, Event("a", "s1", nil, nil, "x", baseTime)))

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	s.ViewCount = 999
	s.Referrers["x"] = engagement.ReferrerTally{Count: 999}

	again, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(1), again.ViewCount)
	require.Equal(t, int64(1), again.Referrers["x"].Count)
}

func testConcurrentWriters(t *testing.T, store storage.SummaryStore) {
	const writers = 64
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			return store.RecordEvent(ctx, Event("hot", fmt.Sprintf("s%d", i%16), Int64(int64(i)), Int64(50), "", baseTime.Add(time.Duration(i)*time.Millisecond)))
		})
	}
	require.NoError(t, g.Wait())

	s, err := store.GetSummary(ctx, "hot")
	require.NoError(t, err)
	require.Equal(t, int64(writers), s.ViewCount)
	require.Equal(t, int64(16), s.UniqueSessionCount)
	require.Equal(t, int64(writers), s.AttentionCount)
	require.Equal(t, int64(writers*(writers-1)/2), s.AttentionSum)
	require.Equal(t, int64(writers), s.ReferrerCounts()[engagement.DirectReferrer])
}

func testPostsIndependent(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()

	var g errgroup.Group
	for _, post := range []string{"p1", "p2", "p3"} {
		post := post
		for i := 0; i < 10; i++ {
			i := i
			g.Go(func() error {
				return store.RecordEvent(ctx, Event(post, fmt.Sprintf("s%d", i), nil, nil, "x", baseTime))
			})
		}
	}
	require.NoError(t, g.Wait())

	all, err := store.GetAllSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for post, s := range all {
		require.Equal(t, post, s.PostID)
		require.Equal(t, int64(10), s.ViewCount)
		require.Equal(t, int64(10), s.UniqueSessionCount)
	}
}

func testHugeAttention(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()
	require.NoError(t, store.RecordEvent(ctx, Event("a", "s1", Int64(math.MaxInt64), nil, "", baseTime)))
	require.NoError(t, store.RecordEvent(ctx, Event("a", "s2", Int64(math.MaxInt64), nil, "", baseTime.Add(time.Second))))

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(2), s.AttentionCount)
	require.Equal(t, int64(2*engagement.MaxAttentionSeconds), s.AttentionSum)
	require.True(t, decimal.NewFromInt(engagement.MaxAttentionSeconds).Equal(s.AverageAttentionSeconds()), s.AverageAttentionSeconds().String())
}

func testZeroReceivedAt(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()
	evt := Event("a", "s1", nil, nil, "", baseTime)
	evt.ReceivedAt = time.Time{}
	before := time.Now().Add(-time.Second)

	require.NoError(t, store.RecordEvent(ctx, evt))

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.False(t, s.LastUpdated.IsZero())
	require.True(t, s.LastUpdated.After(before), s.LastUpdated.String())
}

// An id containing NUL is rejected before any key is built, so
// ("a\x00b", "c") can never alias ("a", "b\x00c").
func testNULIDs(t *testing.T, store storage.SummaryStore) {
	ctx := context.Background()

	err := store.RecordEvent(ctx, Event("a\x00b", "c", nil, nil, "", baseTime))
	var vErr *engagement.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	require.Equal(t, "postId", vErr.Field)

	require.NoError(t, store.RecordEvent(ctx, Event("a", "b", nil, nil, "", baseTime)))
	require.NoError(t, store.RecordEvent(ctx, Event("a", "c", nil, nil, "", baseTime)))

	s, err := store.GetSummary(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(2), s.UniqueSessionCount)
}
