package engagement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is the delta a single accepted event adds to its post's summary.
// Stores apply it either in Go (Summary.Apply) or as SQL increments; both
// paths must agree on these fields.
type Contribution struct {
	Views          int64
	NewSessions    int64
	AttentionSum   int64
	AttentionCount int64
	ScrollSum      int64
	ScrollCount    int64
	Referrer       string
	At             time.Time
}

// ContributionOf builds the delta for evt. newSession reports whether the
// store had not seen (PostID, SessionID) before.
func ContributionOf(evt *Event, newSession bool) Contribution {
	c := Contribution{
		Views:    1,
		Referrer: evt.Referrer,
		At:       evt.ReceivedAt,
	}
	if c.Referrer == "" {
		c.Referrer = DirectReferrer
	}
	if newSession {
		c.NewSessions = 1
	}
	if evt.AttentionSeconds != nil {
		c.AttentionSum = *evt.AttentionSeconds
		c.AttentionCount = 1
	}
	if evt.MaxScrollPercent != nil {
		c.ScrollSum = *evt.MaxScrollPercent
		c.ScrollCount = 1
	}
	return c
}

// Apply folds c into s. O(1); never revisits earlier events.
func (s *Summary) Apply(c Contribution) {
	if s.Referrers == nil {
		s.Referrers = make(map[string]ReferrerTally)
	}

	s.ViewCount += c.Views
	s.UniqueSessionCount += c.NewSessions
	s.AttentionSum += c.AttentionSum
	s.AttentionCount += c.AttentionCount
	s.ScrollSum += c.ScrollSum
	s.ScrollCount += c.ScrollCount

	if c.Views > 0 {
		tally := s.Referrers[c.Referrer]
		tally.Count += c.Views
		tally.LastSeenSeq = s.ViewCount
		s.Referrers[c.Referrer] = tally
	}

	if c.At.After(s.LastUpdated) {
		s.LastUpdated = c.At
	}
}

// AverageAttentionSeconds is the mean over events that reported reading time.
func (s *Summary) AverageAttentionSeconds() decimal.Decimal {
	return mean(s.AttentionSum, s.AttentionCount)
}

// AverageScrollPercent is the mean over events that reported scroll depth.
func (s *Summary) AverageScrollPercent() decimal.Decimal {
	return mean(s.ScrollSum, s.ScrollCount)
}

func mean(sum, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count))
}

// ReferrerCounts flattens the histogram to referrer -> count.
func (s *Summary) ReferrerCounts() map[string]int64 {
	out := make(map[string]int64, len(s.Referrers))
	for ref, tally := range s.Referrers {
		out[ref] = tally.Count
	}
	return out
}

// TopReferrer returns the referrer with the highest count. Ties go to the
// referrer seen most recently. Returns NoReferrer when nothing was counted.
func (s *Summary) TopReferrer() string {
	top := NoReferrer
	var best ReferrerTally
	found := false

	for ref, tally := range s.Referrers {
		if tally.Count <= 0 {
			continue
		}
		if !found ||
			tally.Count > best.Count ||
			(tally.Count == best.Count && tally.LastSeenSeq > best.LastSeenSeq) ||
			(tally.Count == best.Count && tally.LastSeenSeq == best.LastSeenSeq && ref < top) {
			top = ref
			best = tally
			found = true
		}
	}
	return top
}
