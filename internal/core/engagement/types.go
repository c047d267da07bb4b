package engagement

import (
	"strings"
	"time"
)

const (
	// DirectReferrer replaces an empty or missing referrer before counting.
	DirectReferrer = "direct"

	// NoReferrer is reported as top referrer when a summary has no tallies.
	NoReferrer = "none"

	// MaxAttentionSeconds caps one event's reading time at a day so that
	// running sums stay far from int64 overflow.
	MaxAttentionSeconds = 24 * 60 * 60

	maxScrollPercent = 100
)

// Event is one terminal observation of a single viewing session of one post.
// It is created once by the browser, never mutated after ingestion.
type Event struct {
	// ID is assigned by the ingestion service; it keys raw-event retention.
	ID string

	// PostID identifies the post (slug). Required.
	PostID string

	// SessionID is opaque and stable for one browser tab's visit. Required.
	SessionID string

	// ObservedAt is the client-reported emission time. Required.
	ObservedAt time.Time

	// AttentionSeconds is nil when the client did not report reading time.
	AttentionSeconds *int64

	// MaxScrollPercent is nil when the client did not report scroll depth.
	MaxScrollPercent *int64

	// Referrer is "direct" after Normalize when the client sent nothing.
	Referrer string

	// ReceivedAt is the server clock at ingestion.
	ReceivedAt time.Time
}

// Validate checks presence of the required fields.
func (e *Event) Validate() error {
	if err := CheckID("postId", e.PostID); err != nil {
		return err
	}
	if err := CheckID("sessionId", e.SessionID); err != nil {
		return err
	}
	if e.ObservedAt.IsZero() {
		return &ValidationError{Field: "timestamp"}
	}
	return nil
}

// CheckID rejects a blank identifier or one containing NUL, which stores
// use as the separator in composite keys.
func CheckID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field}
	}
	if strings.IndexByte(v, 0) >= 0 {
		return &ValidationError{Field: field, Reason: "must not contain NUL characters"}
	}
	return nil
}

// Normalize trims identifiers, defaults the referrer and clamps optional
// measurements into their legal ranges.
func (e *Event) Normalize() {
	e.PostID = strings.TrimSpace(e.PostID)
	e.SessionID = strings.TrimSpace(e.SessionID)

	e.Referrer = strings.TrimSpace(e.Referrer)
	if e.Referrer == "" {
		e.Referrer = DirectReferrer
	}

	if e.AttentionSeconds != nil {
		v := *e.AttentionSeconds
		switch {
		case v < 0:
			v = 0
		case v > MaxAttentionSeconds:
			v = MaxAttentionSeconds
		}
		e.AttentionSeconds = &v
	}
	if e.MaxScrollPercent != nil {
		v := *e.MaxScrollPercent
		switch {
		case v < 0:
			v = 0
		case v > maxScrollPercent:
			v = maxScrollPercent
		}
		e.MaxScrollPercent = &v
	}
}

// ReferrerTally is the histogram entry for one referrer.
// LastSeenSeq is the ViewCount at the time the referrer was last counted;
// it orders ties in TopReferrer.
type ReferrerTally struct {
	Count       int64 `json:"count"`
	LastSeenSeq int64 `json:"last_seen_seq"`
}

// Summary is the durable aggregate for one post.
//
// Averages are never stored; they are derived from the running sum/count
// pairs so that every event is folded in O(1).
type Summary struct {
	PostID             string                   `json:"post_id"`
	ViewCount          int64                    `json:"view_count"`
	UniqueSessionCount int64                    `json:"unique_session_count"`
	AttentionSum       int64                    `json:"attention_sum"`
	AttentionCount     int64                    `json:"attention_count"`
	ScrollSum          int64                    `json:"scroll_sum"`
	ScrollCount        int64                    `json:"scroll_count"`
	Referrers          map[string]ReferrerTally `json:"referrers"`
	LastUpdated        time.Time                `json:"last_updated"`
}

// NewSummary returns an empty summary for postID.
func NewSummary(postID string) *Summary {
	return &Summary{
		PostID:    postID,
		Referrers: make(map[string]ReferrerTally),
	}
}

// Clone returns a deep copy so callers can't mutate store-owned state.
func (s *Summary) Clone() *Summary {
	out := *s
	out.Referrers = make(map[string]ReferrerTally, len(s.Referrers))
	for k, v := range s.Referrers {
		out.Referrers[k] = v
	}
	return &out
}
