package engagement

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvent_Validate(t *testing.T) {
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		evt        Event
		wantField  string
		wantReason bool
	}{
		{name: "valid", evt: Event{PostID: "p", SessionID: "s", ObservedAt: at}},
		{name: "missing post", evt: Event{SessionID: "s", ObservedAt: at}, wantField: "postId"},
		{name: "blank post", evt: Event{PostID: "  ", SessionID: "s", ObservedAt: at}, wantField: "postId"},
		{name: "missing session", evt: Event{PostID: "p", ObservedAt: at}, wantField: "sessionId"},
		{name: "missing timestamp", evt: Event{PostID: "p", SessionID: "s"}, wantField: "timestamp"},
		{name: "NUL in post", evt: Event{PostID: "a\x00b", SessionID: "s", ObservedAt: at}, wantField: "postId", wantReason: true},
		{name: "NUL in session", evt: Event{PostID: "a", SessionID: "b\x00c", ObservedAt: at}, wantField: "sessionId", wantReason: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.evt.Validate()
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Equal(t, tc.wantField, vErr.Field)
			if tc.wantReason {
				require.ErrorContains(t, err, tc.wantField+" must not contain NUL characters")
				return
			}
			require.ErrorContains(t, err, tc.wantField+" is required")
		})
	}
}

func TestEvent_Normalize(t *testing.T) {
	evt := Event{
		PostID:           "  hello-world ",
		SessionID:        " s1",
		AttentionSeconds: int64Ptr(-5),
		MaxScrollPercent: int64Ptr(140),
		Referrer:         "   ",
	}
	evt.Normalize()

	require.Equal(t, "hello-world", evt.PostID)
	require.Equal(t, "s1", evt.SessionID)
	require.Equal(t, DirectReferrer, evt.Referrer)
	require.Equal(t, int64(0), *evt.AttentionSeconds)
	require.Equal(t, int64(100), *evt.MaxScrollPercent)

	negative := Event{MaxScrollPercent: int64Ptr(-3), Referrer: "google.com"}
	negative.Normalize()
	require.Equal(t, int64(0), *negative.MaxScrollPercent)
	require.Equal(t, "google.com", negative.Referrer)
	require.Nil(t, negative.AttentionSeconds)
}

func TestEvent_NormalizeCapsAttention(t *testing.T) {
	evt := Event{AttentionSeconds: int64Ptr(math.MaxInt64)}
	evt.Normalize()
	require.Equal(t, int64(MaxAttentionSeconds), *evt.AttentionSeconds)

	inRange := Event{AttentionSeconds: int64Ptr(MaxAttentionSeconds - 1)}
	inRange.Normalize()
	require.Equal(t, int64(MaxAttentionSeconds-1), *inRange.AttentionSeconds)
}
