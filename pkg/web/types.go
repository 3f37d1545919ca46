// Package web provides the HTTP surface of the stage pipeline.
package web

// SuccessResponse is the envelope of every successful stage response.
type SuccessResponse struct {
	OK        bool   `json:"ok"`
	Data      any    `json:"data"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope of every failed stage response.
type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Checkers map[string]string `json:"checkers"`
}
