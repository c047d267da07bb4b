package projection

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryQueryRequest represents the query parameters for listing summaries.
type SummaryQueryRequest struct {
	Sort  string `form:"sort"`  // post_id (default), views, last_updated
	Limit int    `form:"limit"` // 0 means all
}

// SummaryView is the JSON shape of one post's summary.
// Averages are rounded to two decimals; the store keeps exact sums.
type SummaryView struct {
	PostID                string           `json:"post_id"`
	ViewCount             int64            `json:"view_count"`
	UniqueVisitors        int64            `json:"unique_visitors"`
	AvgReadingTimeSeconds decimal.Decimal  `json:"avg_reading_time_seconds"`
	AvgScrollDepthPercent decimal.Decimal  `json:"avg_scroll_depth_percent"`
	TopReferrer           string           `json:"top_referrer"`
	ReferrerCounts        map[string]int64 `json:"referrer_counts"`
	LastUpdated           time.Time        `json:"last_updated"`
}

// SummaryResponse wraps a single post lookup. Summary is null when the post
// has no accepted events yet.
type SummaryResponse struct {
	PostID  string       `json:"post_id"`
	Summary *SummaryView `json:"summary"`
}

// SiteTotals rolls every post up into one line.
type SiteTotals struct {
	Posts                 int             `json:"posts"`
	ViewCount             int64           `json:"view_count"`
	UniqueVisitors        int64           `json:"unique_visitors"`
	AvgReadingTimeSeconds decimal.Decimal `json:"avg_reading_time_seconds"`
	AvgScrollDepthPercent decimal.Decimal `json:"avg_scroll_depth_percent"`
	LastUpdated           *time.Time      `json:"last_updated"`
}

// SummariesResponse represents the response for a summary listing.
type SummariesResponse struct {
	Count     int           `json:"count"`
	Sort      string        `json:"sort"`
	Totals    SiteTotals    `json:"totals"`
	Summaries []SummaryView `json:"summaries"`
}
