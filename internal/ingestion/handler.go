package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/skshmgpt/folio/internal/api/v1"
	"github.com/skshmgpt/folio/internal/core/engagement"
	httperr "github.com/skshmgpt/folio/internal/core/errors"
	"github.com/skshmgpt/folio/internal/telemetry"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgMissingFields   = "Missing required fields"
	msgPersistFailed   = "Failed to store metric"
	msgPayloadTooLarge = "Request body exceeds maximum allowed size"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler accepts one engagement event and folds it into its post's summary.
func (s *Service) IngestHandler(c *gin.Context) {
	payload, payloadSize, err := s.parsePayload(c)
	if err != nil {
		telemetry.RecordEvent(telemetry.ResultInvalid)
		writeError(c, err)
		return
	}

	if err := validatePayload(payload); err != nil {
		telemetry.RecordEvent(telemetry.ResultInvalid)
		writeError(c, err)
		return
	}

	evt := payload.ToEvent(s.now())
	evt.Normalize()

	if s.dedup != nil && s.dedup.Seen(evt.PostID, evt.SessionID) {
		slog.Info("[Ingestion] Duplicate event dropped",
			"post_id", evt.PostID,
			"session_id", evt.SessionID)
		telemetry.RecordEvent(telemetry.ResultDeduplicated)
		c.JSON(http.StatusOK, gin.H{"success": true, "deduplicated": true})
		return
	}

	slog.Info("[Ingestion] Received event",
		"event_id", evt.ID,
		"post_id", evt.PostID,
		"session_id", evt.SessionID,
		"referrer", evt.Referrer,
		"payload_size", payloadSize)

	if err := s.persistEvent(c.Request.Context(), evt); err != nil {
		writeError(c, err)
		return
	}

	if s.dedup != nil {
		s.dedup.Remember(evt.PostID, evt.SessionID)
	}

	telemetry.RecordEvent(telemetry.ResultAccepted)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parsePayload reads the raw request body and binds it into an EngagementPayload.
// Returns the parsed payload and the raw payload size (used for structured logging upstream).
func (s *Service) parsePayload(c *gin.Context) (*v1.EngagementPayload, int, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgPayloadTooLarge,
			details: map[string]interface{}{
				"max_size_kb": maxBytes / 1024,
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	// Unload beacons are often sent as text/plain, so bind as JSON regardless of Content-Type.
	var payload v1.EngagementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &payload, len(bodyBytes), nil
}

// validatePayload checks required fields before anything touches the store.
func validatePayload(payload *v1.EngagementPayload) *ingestionError {
	if err := payload.Validate(); err != nil {
		slog.Warn("[Ingestion] Payload validation failed", "error", err)
		return validationError(err)
	}
	return nil
}

func validationError(err error) *ingestionError {
	ie := &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpValidationError,
		message:    msgMissingFields,
	}
	var vErr *engagement.ValidationError
	if errors.As(err, &vErr) {
		details := map[string]interface{}{"field": vErr.Field}
		if vErr.Reason != "" {
			details["reason"] = vErr.Reason
		}
		ie.details = details
	}
	return ie
}

// persistEvent folds the event into the store. The cause of a failure is
// logged, never returned to the client, and the event is not retried.
func (s *Service) persistEvent(ctx context.Context, evt *engagement.Event) *ingestionError {
	err := s.store.RecordEvent(ctx, evt)
	if err == nil {
		return nil
	}

	var vErr *engagement.ValidationError
	if errors.As(err, &vErr) {
		telemetry.RecordEvent(telemetry.ResultInvalid)
		return validationError(err)
	}

	telemetry.RecordEvent(telemetry.ResultFailed)
	slog.Error("[Ingestion] Failed to persist event", "error", err, "event_id", evt.ID, "post_id", evt.PostID)
	return &ingestionError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgPersistFailed,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		Error:     err.message,
		ErrorType: err.errorType,
		Details:   err.details,
	})
}
