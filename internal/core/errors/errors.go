package errors

const (
	HttpInternalError         = "internal_error"
	HttpInvalidJsonError      = "invalid_json"
	HttpValidationError       = "validation_failed"
	HttpPayloadTooLargeError  = "payload_too_large"
	HttpRateLimitedError      = "rate_limited"
	HttpStoreUnavailableError = "store_unavailable"
)

// ErrorResponse is the error response body for every API error.
// Error keeps the field name the blog's tracker already reads.
type ErrorResponse struct {
	Error     string      `json:"error"`
	ErrorType string      `json:"error_type"`
	Details   interface{} `json:"details,omitempty"`
}
