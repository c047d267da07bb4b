package projection

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/skshmgpt/folio/internal/core/engagement"
)

// csvTimeLayout is ISO-8601 with milliseconds, as browsers print Date.toISOString().
const csvTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var csvHeader = []string{
	"Slug",
	"Page Views",
	"Unique Visitors",
	"Avg Reading Time (s)",
	"Avg Scroll Depth (%)",
	"Top Referrer",
	"Last Updated",
}

// WriteCSV writes one header row and one row per post, ordered by post id.
// Averages are rounded half-up to whole numbers.
func WriteCSV(w io.Writer, summaries map[string]*engagement.Summary) error {
	postIDs := make([]string, 0, len(summaries))
	for id := range summaries {
		postIDs = append(postIDs, id)
	}
	sort.Strings(postIDs)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, id := range postIDs {
		if err := cw.Write(csvRow(summaries[id])); err != nil {
			return fmt.Errorf("write csv row %q: %w", id, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRow(s *engagement.Summary) []string {
	return []string{
		s.PostID,
		strconv.FormatInt(s.ViewCount, 10),
		strconv.FormatInt(s.UniqueSessionCount, 10),
		s.AverageAttentionSeconds().Round(0).String(),
		s.AverageScrollPercent().Round(0).String(),
		s.TopReferrer(),
		formatCSVTime(s.LastUpdated),
	}
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(csvTimeLayout)
}
