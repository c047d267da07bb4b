package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skshmgpt/folio/internal/core/engagement"
	httperr "github.com/skshmgpt/folio/internal/core/errors"
	"github.com/skshmgpt/folio/internal/core/storage"
	"github.com/skshmgpt/folio/internal/core/storage/memory"
	storagemocks "github.com/skshmgpt/folio/internal/mocks/storage"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, store storage.SummaryStore, maxBodyKB int, dedup *Deduper) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(store, maxBodyKB, dedup)
	svc.now = func() time.Time { return fixedNow }

	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	return errResp
}

func TestIngestHandler_Success(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.MatchedBy(func(e *engagement.Event) bool {
			return e.PostID == "hello-world" &&
				e.SessionID == "s1" &&
				e.ObservedAt.Equal(time.UnixMilli(1759320000000)) &&
				e.ReceivedAt.Equal(fixedNow) &&
				*e.AttentionSeconds == 42 &&
				*e.MaxScrollPercent == 80 &&
				e.Referrer == "google.com" &&
				e.ID != ""
		})).
		Return(nil).
		Once()

	r := newTestRouter(t, mockStore, 0, nil)
	resp := post(r, "/api/metrics", `{"postId":"hello-world","sessionId":"s1","timestamp":1759320000000,"readingTimeSpent":42,"scrollDepth":80,"referrer":"google.com"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"success":true}`, resp.Body.String())
}

func TestIngestHandler_SlugAliasOnVersionedRoute(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.MatchedBy(func(e *engagement.Event) bool {
			return e.PostID == "from-slug" && e.AttentionSeconds == nil && e.MaxScrollPercent == nil
		})).
		Return(nil).
		Once()

	r := newTestRouter(t, mockStore, 0, nil)
	resp := post(r, "/v1/events", `{"slug":"from-slug","sessionId":"s1","timestamp":1759320000000}`)

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	r := newTestRouter(t, mockStore, 0, nil)

	resp := post(r, "/api/metrics", "not json")

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpInvalidJsonError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing post", body: `{"sessionId":"s1","timestamp":1759320000000}`, field: "postId"},
		{name: "missing session", body: `{"postId":"a","timestamp":1759320000000}`, field: "sessionId"},
		{name: "missing timestamp", body: `{"postId":"a","sessionId":"s1"}`, field: "timestamp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// No expectations: the store must not be touched.
			mockStore := storagemocks.NewSummaryStore(t)
			r := newTestRouter(t, mockStore, 0, nil)

			resp := post(r, "/api/metrics", tc.body)

			require.Equal(t, http.StatusBadRequest, resp.Code)
			errResp := decodeError(t, resp)
			require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
			require.Equal(t, "Missing required fields", errResp.Error)
			require.Equal(t, map[string]interface{}{"field": tc.field}, errResp.Details)
		})
	}
}

func TestIngestHandler_StoreFailure(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.Anything).
		Return(errors.New("pq: connection refused")).
		Once()

	r := newTestRouter(t, mockStore, 0, nil)
	resp := post(r, "/api/metrics", `{"postId":"a","sessionId":"s1","timestamp":1759320000000}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	errResp := decodeError(t, resp)
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
	require.Equal(t, "Failed to store metric", errResp.Error)
	require.NotContains(t, resp.Body.String(), "connection refused")
}

func TestIngestHandler_StoreValidationError(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.Anything).
		Return(&engagement.ValidationError{Field: "postId"}).
		Once()

	r := newTestRouter(t, mockStore, 0, nil)
	resp := post(r, "/api/metrics", `{"postId":"a","sessionId":"s1","timestamp":1759320000000}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpValidationError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_BodyTooLarge(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	r := newTestRouter(t, mockStore, 1, nil)

	big := `{"postId":"a","sessionId":"s1","timestamp":1759320000000,"referrer":"` + strings.Repeat("x", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/metrics", bytes.NewReader([]byte(big)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	require.Equal(t, httperr.HttpPayloadTooLargeError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_DeduplicatesRetriedBeacon(t *testing.T) {
	dedup, err := NewDeduper(time.Minute, 100)
	require.NoError(t, err)
	defer dedup.Close()

	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.Anything).
		Return(nil).
		Once()

	r := newTestRouter(t, mockStore, 0, dedup)
	body := `{"postId":"a","sessionId":"s1","timestamp":1759320000000}`

	first := post(r, "/api/metrics", body)
	require.Equal(t, http.StatusOK, first.Code)
	require.JSONEq(t, `{"success":true}`, first.Body.String())

	second := post(r, "/api/metrics", body)
	require.Equal(t, http.StatusOK, second.Code)
	require.JSONEq(t, `{"success":true,"deduplicated":true}`, second.Body.String())
}

func TestIngestHandler_FailedStoreIsNotRemembered(t *testing.T) {
	dedup, err := NewDeduper(time.Minute, 100)
	require.NoError(t, err)
	defer dedup.Close()

	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.Anything).
		Return(storage.ErrUnavailable).
		Once()
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.Anything).
		Return(nil).
		Once()

	r := newTestRouter(t, mockStore, 0, dedup)
	body := `{"postId":"a","sessionId":"s1","timestamp":1759320000000}`

	require.Equal(t, http.StatusInternalServerError, post(r, "/api/metrics", body).Code)
	retry := post(r, "/api/metrics", body)
	require.Equal(t, http.StatusOK, retry.Code)
	require.JSONEq(t, `{"success":true}`, retry.Body.String())
}

func TestNewService_PanicsOnNilStore(t *testing.T) {
	require.Panics(t, func() { NewService(nil, 64, nil) })
}

func TestIngestHandler_HugeReadingTimeCannotOverflowSummary(t *testing.T) {
	store := memory.New()
	r := newTestRouter(t, store, 0, nil)

	for _, session := range []string{"s1", "s2"} {
		resp := post(r, "/api/metrics", `{"postId":"a","sessionId":"`+session+`","timestamp":1759320000000,"readingTimeSpent":9e18}`)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	s, err := store.GetSummary(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, int64(2), s.AttentionCount)
	require.Equal(t, int64(2*engagement.MaxAttentionSeconds), s.AttentionSum)
	require.Equal(t, int64(engagement.MaxAttentionSeconds), s.AverageAttentionSeconds().IntPart())
}

func TestIngestHandler_NormalizesBeforeStoring(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	mockStore.EXPECT().
		RecordEvent(mock.Anything, mock.MatchedBy(func(e *engagement.Event) bool {
			return e.Referrer == engagement.DirectReferrer && *e.AttentionSeconds == 0
		})).
		Return(nil).
		Once()

	r := newTestRouter(t, mockStore, 0, nil)
	resp := post(r, "/api/metrics", `{"postId":"a","sessionId":"s1","timestamp":1759320000000,"readingTimeSpent":-4,"referrer":"  "}`)

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestIngestHandler_RejectsNULInIDs(t *testing.T) {
	mockStore := storagemocks.NewSummaryStore(t)
	r := newTestRouter(t, mockStore, 0, nil)

	resp := post(r, "/api/metrics", `{"postId":"a\u0000b","sessionId":"c","timestamp":1759320000000}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	errResp := decodeError(t, resp)
	require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
	require.Equal(t, map[string]interface{}{"field": "postId", "reason": "must not contain NUL characters"}, errResp.Details)
}
