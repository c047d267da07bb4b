package postgres

import (
	"database/sql"
	"fmt"

	"github.com/skshmgpt/folio/internal/core/engagement"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSummaryRow scans an engagement_summaries row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanSummaryRow(row scanner) (*engagement.Summary, error) {
	var (
		postID      string
		lastUpdated sql.NullTime
	)
	summary := &engagement.Summary{}

	err := row.Scan(
		&postID,
		&summary.ViewCount,
		&summary.UniqueSessionCount,
		&summary.AttentionSum,
		&summary.AttentionCount,
		&summary.ScrollSum,
		&summary.ScrollCount,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	summary.PostID = postID
	summary.Referrers = make(map[string]engagement.ReferrerTally)
	if lastUpdated.Valid {
		summary.LastUpdated = lastUpdated.Time.UTC()
	}
	return summary, nil
}

// scanReferrers attaches every referrer row to its summary. Rows for posts
// not present in summaries are ignored.
func scanReferrers(rows *sql.Rows, summaries map[string]*engagement.Summary) error {
	for rows.Next() {
		var (
			postID, referrer string
			tally            engagement.ReferrerTally
		)
		if err := rows.Scan(&postID, &referrer, &tally.Count, &tally.LastSeenSeq); err != nil {
			return fmt.Errorf("scan referrer row: %w", err)
		}
		if s, ok := summaries[postID]; ok {
			s.Referrers[referrer] = tally
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate referrer rows: %w", err)
	}
	return nil
}

// nullInt64 maps an optional measurement to SQL NULL.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
