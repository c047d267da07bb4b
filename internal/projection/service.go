package projection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/skshmgpt/folio/internal/core/storage"
)

const (
	defaultExportFilename = "blog-metrics.csv"

	SortByPostID      = "post_id"
	SortByViews       = "views"
	SortByLastUpdated = "last_updated"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid summary query")
)

// Service implements the query and export layer over the summary store.
// It never writes.
type Service struct {
	store          storage.SummaryStore
	exportFilename string
}

// NewService creates a new projection service.
func NewService(store storage.SummaryStore, exportFilename string) *Service {
	if store == nil {
		panic("projection: store must not be nil")
	}
	if exportFilename == "" {
		exportFilename = defaultExportFilename
	}
	return &Service{
		store:          store,
		exportFilename: exportFilename,
	}
}

// ExportFilename is the attachment name offered to browsers.
func (s *Service) ExportFilename() string {
	return s.exportFilename
}

// ExportCSV writes every summary as CSV to w. Usable outside HTTP (e.g. a
// cron job writing to a file).
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	summaries, err := s.store.GetAllSummaries(ctx)
	if err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	if err := WriteCSV(w, summaries); err != nil {
		return err
	}

	slog.Info("[Projection] Exported summaries", "posts", len(summaries))
	return nil
}

// GetSummary returns the view for one post, or nil when the post has no
// accepted events. Absence is not an error.
func (s *Service) GetSummary(ctx context.Context, postID string) (*SummaryView, error) {
	summary, err := s.store.GetSummary(ctx, postID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary %q: %w", postID, err)
	}

	view := newSummaryView(summary)
	return &view, nil
}

// ListSummaries returns every summary in the requested order plus site totals.
func (s *Service) ListSummaries(ctx context.Context, req SummaryQueryRequest) (*SummariesResponse, error) {
	req, err := normalizeAndValidate(req)
	if err != nil {
		return nil, err
	}

	summaries, err := s.store.GetAllSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	views := make([]SummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, newSummaryView(summary))
	}
	sortViews(views, req.Sort)

	if req.Limit > 0 && len(views) > req.Limit {
		views = views[:req.Limit]
	}

	return &SummariesResponse{
		Count:     len(views),
		Sort:      req.Sort,
		Totals:    rollupTotals(summaries),
		Summaries: views,
	}, nil
}

func normalizeAndValidate(req SummaryQueryRequest) (SummaryQueryRequest, error) {
	if req.Sort == "" {
		req.Sort = SortByPostID
	}

	switch req.Sort {
	case SortByPostID, SortByViews, SortByLastUpdated:
	default:
		return req, invalidQueryf("invalid sort: %s (must be post_id, views, or last_updated)", req.Sort)
	}

	if req.Limit < 0 {
		return req, invalidQueryf("limit must not be negative")
	}
	return req, nil
}

// sortViews orders views; post id breaks every tie so output is stable.
func sortViews(views []SummaryView, by string) {
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		switch by {
		case SortByViews:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		case SortByLastUpdated:
			if !a.LastUpdated.Equal(b.LastUpdated) {
				return a.LastUpdated.After(b.LastUpdated)
			}
		}
		return a.PostID < b.PostID
	})
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

