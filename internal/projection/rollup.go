package projection

import (
	"github.com/shopspring/decimal"

	"github.com/skshmgpt/folio/internal/core/engagement"
)

const viewDecimals = 2

// newSummaryView derives the read model for one summary.
func newSummaryView(s *engagement.Summary) SummaryView {
	return SummaryView{
		PostID:                s.PostID,
		ViewCount:             s.ViewCount,
		UniqueVisitors:        s.UniqueSessionCount,
		AvgReadingTimeSeconds: s.AverageAttentionSeconds().Round(viewDecimals),
		AvgScrollDepthPercent: s.AverageScrollPercent().Round(viewDecimals),
		TopReferrer:           s.TopReferrer(),
		ReferrerCounts:        s.ReferrerCounts(),
		LastUpdated:           s.LastUpdated.UTC(),
	}
}

// rollupTotals sums every post into site-wide totals.
// Averages are weighted by the number of events that reported the measure,
// so a post with many readers weighs more than a post with one.
// Unique visitors are summed per post; a reader of two posts counts twice.
func rollupTotals(summaries map[string]*engagement.Summary) SiteTotals {
	totals := SiteTotals{
		Posts:                 len(summaries),
		AvgReadingTimeSeconds: decimal.Zero,
		AvgScrollDepthPercent: decimal.Zero,
	}

	var attentionSum, attentionCount, scrollSum, scrollCount int64
	for _, s := range summaries {
		totals.ViewCount += s.ViewCount
		totals.UniqueVisitors += s.UniqueSessionCount
		attentionSum += s.AttentionSum
		attentionCount += s.AttentionCount
		scrollSum += s.ScrollSum
		scrollCount += s.ScrollCount

		if !s.LastUpdated.IsZero() && (totals.LastUpdated == nil || s.LastUpdated.After(*totals.LastUpdated)) {
			last := s.LastUpdated.UTC()
			totals.LastUpdated = &last
		}
	}

	if attentionCount > 0 {
		totals.AvgReadingTimeSeconds = decimal.NewFromInt(attentionSum).
			Div(decimal.NewFromInt(attentionCount)).
			Round(viewDecimals)
	}
	if scrollCount > 0 {
		totals.AvgScrollDepthPercent = decimal.NewFromInt(scrollSum).
			Div(decimal.NewFromInt(scrollCount)).
			Round(viewDecimals)
	}
	return totals
}
