package server

import "uniswap-relay/internal/telemetry"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK      bool               `json:"ok"`                // Service health status
	Metrics *telemetry.Metrics `json:"metrics,omitempty"` // Relay counters, when the collector runs in-process
}

// AIAskRequest represents a natural language query request
type AIAskRequest struct {
	Question string `json:"question"` // Natural language question about swap data
}

// AIAskResponse represents the response from an AI query
type AIAskResponse struct {
	SQL    string `json:"sql"`     // Generated SQL query
	Answer string `json:"answer"`  // Natural language answer
	TookMs int64  `json:"took_ms"` // Execution time in milliseconds
}
