package projection

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skshmgpt/folio/internal/core/engagement"
	"github.com/skshmgpt/folio/internal/core/storage"
	storagemocks "github.com/skshmgpt/folio/internal/mocks/storage"
)

func TestService_GetSummary_AbsentIsNotAnError(t *testing.T) {
	store := storagemocks.NewSummaryStore(t)
	store.EXPECT().GetSummary(mock.Anything, "missing").Return(nil, storage.ErrNotFound).Once()

	svc := NewService(store, "")
	view, err := svc.GetSummary(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, view)
}

func TestService_GetSummary_View(t *testing.T) {
	store := storagemocks.NewSummaryStore(t)
	store.EXPECT().GetSummary(mock.Anything, "a").Return(twoSessionSummary(), nil).Once()

	svc := NewService(store, "")
	view, err := svc.GetSummary(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, int64(2), view.ViewCount)
	require.Equal(t, int64(2), view.UniqueVisitors)
	require.Equal(t, "60", view.AvgReadingTimeSeconds.String())
	require.Equal(t, "75", view.AvgScrollDepthPercent.String())
	require.Equal(t, "google.com", view.TopReferrer)
	require.Equal(t, map[string]int64{"direct": 1, "google.com": 1}, view.ReferrerCounts)
	require.True(t, view.LastUpdated.Equal(t2))
}

func TestService_GetSummary_StoreError(t *testing.T) {
	store := storagemocks.NewSummaryStore(t)
	store.EXPECT().GetSummary(mock.Anything, "a").Return(nil, storage.ErrUnavailable).Once()

	_, err := NewService(store, "").GetSummary(context.Background(), "a")
	require.ErrorIs(t, err, storage.ErrUnavailable)
}

func manySummaries() map[string]*engagement.Summary {
	b := engagement.NewSummary("b")
	for i := 0; i < 5; i++ {
		b.Apply(engagement.ContributionOf(&engagement.Event{
			PostID: "b", SessionID: "s", ReceivedAt: t1,
			AttentionSeconds: int64Ptr(10),
		}, i == 0))
	}
	c := engagement.NewSummary("c")
	c.Apply(engagement.ContributionOf(&engagement.Event{PostID: "c", SessionID: "x", ReceivedAt: t2.Add(1)}, true))

	return map[string]*engagement.Summary{"a": twoSessionSummary(), "b": b, "c": c}
}

func TestService_ListSummaries(t *testing.T) {
	tests := []struct {
		name      string
		req       SummaryQueryRequest
		wantOrder []string
	}{
		{name: "default by post id", req: SummaryQueryRequest{}, wantOrder: []string{"a", "b", "c"}},
		{name: "by views", req: SummaryQueryRequest{Sort: SortByViews}, wantOrder: []string{"b", "a", "c"}},
		{name: "by last updated", req: SummaryQueryRequest{Sort: SortByLastUpdated}, wantOrder: []string{"c", "a", "b"}},
		{name: "limited", req: SummaryQueryRequest{Sort: SortByViews, Limit: 1}, wantOrder: []string{"b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := storagemocks.NewSummaryStore(t)
			store.EXPECT().GetAllSummaries(mock.Anything).Return(manySummaries(), nil).Once()

			resp, err := NewService(store, "").ListSummaries(context.Background(), tc.req)
			require.NoError(t, err)

			got := make([]string, 0, len(resp.Summaries))
			for _, v := range resp.Summaries {
				got = append(got, v.PostID)
			}
			require.Equal(t, tc.wantOrder, got)
			require.Equal(t, len(tc.wantOrder), resp.Count)

			// Totals always cover every post, regardless of limit.
			require.Equal(t, 3, resp.Totals.Posts)
			require.Equal(t, int64(8), resp.Totals.ViewCount)
			require.Equal(t, int64(4), resp.Totals.UniqueVisitors)
		})
	}
}

func TestService_ListSummaries_InvalidQuery(t *testing.T) {
	store := storagemocks.NewSummaryStore(t)
	svc := NewService(store, "")

	_, err := svc.ListSummaries(context.Background(), SummaryQueryRequest{Sort: "random"})
	require.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.ListSummaries(context.Background(), SummaryQueryRequest{Limit: -1})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestService_ExportCSV_StoreError(t *testing.T) {
	store := storagemocks.NewSummaryStore(t)
	store.EXPECT().GetAllSummaries(mock.Anything).Return(nil, errors.New("disk on fire")).Once()

	var buf bytes.Buffer
	err := NewService(store, "").ExportCSV(context.Background(), &buf)
	require.ErrorContains(t, err, "disk on fire")
	require.Zero(t, buf.Len())
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(storagemocks.NewSummaryStore(t), "")
	require.Equal(t, "blog-metrics.csv", svc.ExportFilename())

	require.Panics(t, func() { NewService(nil, "") })
}
