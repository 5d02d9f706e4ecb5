package handler

import "time"

// Response is the standard API response envelope.
// Health, readiness and API errors use it. The link generation and
// inspection endpoints keep their flat shapes.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// GenerateLinkResponse is the body of GET /api/generate-link.
type GenerateLinkResponse struct {
	OK              bool   `json:"ok"`
	Link            string `json:"link"`
	DurationMinutes int    `json:"durationMinutes"`
	ExpiresAt       int64  `json:"expiresAt"`
}

// PinnedLinkResponse is the body of /api/generate-link-wix. Result
// duplicates Link for form builders that only map a "result" field.
type PinnedLinkResponse struct {
	OK              bool   `json:"ok"`
	Link            string `json:"link"`
	Result          string `json:"result"`
	DurationMinutes int    `json:"durationMinutes"`
}

// PinnedLinkRequest is the POST body of /api/generate-link-wix. Duration
// may be a number or a numeric string.
type PinnedLinkRequest struct {
	Duration any `json:"duration"`
}

// FailureResponse is the error body of the link endpoints.
type FailureResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// InspectResponse is the body of GET /api/token/inspect.
type InspectResponse struct {
	Valid       bool  `json:"valid"`
	ExpiresAt   int64 `json:"expiresAt"`
	RemainingMs int64 `json:"remainingMs"`
}

// HealthResponse is the data of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ReadyResponse is the data of GET /api/ready.
type ReadyResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
