package models

import "time"

// Outcome classifies how the gateway disposed of a request.
type Outcome string

const (
	OutcomeForwarded        Outcome = "forwarded"
	OutcomePreflight        Outcome = "preflight"
	OutcomePathRejected     Outcome = "path_rejected"
	OutcomeUnauthorized     Outcome = "unauthorized"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeTransportFailure Outcome = "transport_failure"
)

// RequestLog represents one request handled by the gateway
type RequestLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	Method       string    `json:"method"`
	Subpath      string    `json:"subpath"`
	Provider     string    `json:"provider"`
	Outcome      Outcome   `json:"outcome"`
	IsStreaming  bool      `json:"is_streaming"`
	StatusCode   int       `json:"status_code"`
	ErrorMessage string    `json:"error_message,omitempty"`
	BytesRelayed int64     `json:"bytes_relayed"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	Subpath    string
	Outcome    Outcome
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
