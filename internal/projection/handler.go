package projection

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httperr "github.com/skshmgpt/folio/internal/core/errors"
)

const msgExportFailed = "Failed to export metrics"

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/metrics/export", s.HandleExport)
	r.GET("/api/metrics/summaries", s.HandleListSummaries)
	r.GET("/api/metrics/summaries/:post_id", s.HandleGetSummary)
}

// HandleExport handles GET /api/metrics/export.
// The CSV is buffered so a store failure surfaces as a JSON 500, never a
// partial download.
func (s *Service) HandleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.ExportCSV(c.Request.Context(), &buf); err != nil {
		slog.Error("[Projection] Export failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			Error:     msgExportFailed,
			ErrorType: httperr.HttpInternalError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exportFilename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// HandleListSummaries handles GET /api/metrics/summaries
// Query parameters: sort, limit
func (s *Service) HandleListSummaries(c *gin.Context) {
	var query SummaryQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:     "Invalid query parameters",
			ErrorType: httperr.HttpValidationError,
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.ListSummaries(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				Error:     "Invalid summary query",
				ErrorType: httperr.HttpValidationError,
				Details:   err.Error(),
			})
			return
		}

		slog.Error("[Projection] Listing summaries failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			Error:     "Failed to query summaries",
			ErrorType: httperr.HttpInternalError,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleGetSummary handles GET /api/metrics/summaries/:post_id
func (s *Service) HandleGetSummary(c *gin.Context) {
	postID := strings.TrimSpace(c.Param("post_id"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:     "Invalid path parameters",
			ErrorType: httperr.HttpValidationError,
			Details:   "post_id is required",
		})
		return
	}

	view, err := s.GetSummary(c.Request.Context(), postID)
	if err != nil {
		slog.Error("[Projection] Summary lookup failed", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			Error:     "Failed to query summary",
			ErrorType: httperr.HttpInternalError,
		})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{PostID: postID, Summary: view})
}
