package postgres

// SQL for the engagement summary tables (see migrations/000001).

const (
	// queryInitSummaryRow guarantees a row exists so the FOR UPDATE below
	// always has something to lock, even for a post's first event.
	queryInitSummaryRow = `
		INSERT INTO engagement_summaries (post_id)
		VALUES ($1)
		ON CONFLICT (post_id) DO NOTHING
	`

	// querySelectSummaryForUpdate serializes writers of one post until commit.
	querySelectSummaryForUpdate = `
		SELECT view_count
		FROM engagement_summaries
		WHERE post_id = $1
		FOR UPDATE
	`

	// queryInsertSession affects one row only the first time a session is seen.
	queryInsertSession = `
		INSERT INTO engagement_sessions (post_id, session_id, first_seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, session_id) DO NOTHING
	`

	// queryApplyContribution adds one event's delta. GREATEST ignores NULL,
	// so the first event sets last_updated and later ones never move it back.
	queryApplyContribution = `
		UPDATE engagement_summaries
		SET view_count           = view_count + $2,
		    unique_session_count = unique_session_count + $3,
		    attention_sum        = attention_sum + $4,
		    attention_count      = attention_count + $5,
		    scroll_sum           = scroll_sum + $6,
		    scroll_count         = scroll_count + $7,
		    last_updated         = GREATEST(last_updated, $8)
		WHERE post_id = $1
		RETURNING view_count
	`

	// queryUpsertReferrer bumps the tally and stamps it with the post's view count.
	queryUpsertReferrer = `
		INSERT INTO engagement_referrers (post_id, referrer, count, last_seen_seq)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, referrer)
		DO UPDATE SET
			count         = engagement_referrers.count + EXCLUDED.count,
			last_seen_seq = EXCLUDED.last_seen_seq
	`

	// queryInsertEvent appends the raw event when retention is enabled.
	queryInsertEvent = `
		INSERT INTO engagement_events (
			id, post_id, session_id, observed_at, received_at,
			attention_seconds, max_scroll_percent, referrer
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	querySelectSummary = `
		SELECT
			post_id, view_count, unique_session_count,
			attention_sum, attention_count, scroll_sum, scroll_count, last_updated
		FROM engagement_summaries
		WHERE post_id = $1
	`

	querySelectReferrers = `
		SELECT post_id, referrer, count, last_seen_seq
		FROM engagement_referrers
		WHERE post_id = $1
	`

	querySelectAllSummaries = `
		SELECT
			post_id, view_count, unique_session_count,
			attention_sum, attention_count, scroll_sum, scroll_count, last_updated
		FROM engagement_summaries
		WHERE view_count > 0
	`

	querySelectAllReferrers = `
		SELECT post_id, referrer, count, last_seen_seq
		FROM engagement_referrers
	`

	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)
