package v1

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skshmgpt/folio/internal/core/engagement"
)

// EngagementPayload is the JSON body the blog's tracker posts when a reader
// leaves a page (unload beacon).
//
// Optional numerics are pointers: absent means "not reported", which is
// different from a reported zero.
type EngagementPayload struct {
	// PostID identifies the post. Slug is accepted as an alias because the
	// tracker historically sent the page slug under that name.
	PostID string `json:"postId"`
	Slug   string `json:"slug"`

	// SessionID is stable for one browser tab's visit. REQUIRED.
	SessionID string `json:"sessionId"`

	// Timestamp is the client clock at emission, milliseconds since epoch. REQUIRED.
	Timestamp *float64 `json:"timestamp"`

	// ReadingTimeSpent is visible-tab attention time in seconds.
	ReadingTimeSpent *float64 `json:"readingTimeSpent,omitempty"`

	// ScrollDepth is the maximum scroll position reached, in percent.
	ScrollDepth *float64 `json:"scrollDepth,omitempty"`

	// Referrer is the document referrer; empty or missing counts as "direct".
	Referrer *string `json:"referrer,omitempty"`
}

// Post returns the post identifier, preferring postId over slug.
func (p *EngagementPayload) Post() string {
	if id := strings.TrimSpace(p.PostID); id != "" {
		return id
	}
	return strings.TrimSpace(p.Slug)
}

// Validate ensures the payload carries every required field.
// A zero timestamp counts as missing.
func (p *EngagementPayload) Validate() error {
	if err := engagement.CheckID("postId", p.Post()); err != nil {
		return err
	}
	if err := engagement.CheckID("sessionId", p.SessionID); err != nil {
		return err
	}
	if p.Timestamp == nil || *p.Timestamp <= 0 {
		return &engagement.ValidationError{Field: "timestamp"}
	}
	return nil
}

// ToEvent converts a validated payload into a domain event stamped with a
// fresh ID and the server receive time. Fractional numbers are rounded.
func (p *EngagementPayload) ToEvent(receivedAt time.Time) *engagement.Event {
	evt := &engagement.Event{
		ID:               uuid.NewString(),
		PostID:           p.Post(),
		SessionID:        strings.TrimSpace(p.SessionID),
		AttentionSeconds: roundOptional(p.ReadingTimeSpent),
		MaxScrollPercent: roundOptional(p.ScrollDepth),
		ReceivedAt:       receivedAt.UTC(),
	}
	if p.Timestamp != nil {
		evt.ObservedAt = time.UnixMilli(roundInt64(*p.Timestamp)).UTC()
	}
	if p.Referrer != nil {
		evt.Referrer = strings.TrimSpace(*p.Referrer)
	}
	return evt
}

func roundOptional(v *float64) *int64 {
	if v == nil {
		return nil
	}
	r := roundInt64(*v)
	return &r
}

// roundInt64 rounds half away from zero and saturates at the int64 bounds.
func roundInt64(v float64) int64 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(r)
	}
}
