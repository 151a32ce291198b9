package domain

import "time"

// QueryLogLimit bounds how much of a query is kept in history records.
const QueryLogLimit = 100

// TruncateQuery shortens a query for history records and log lines.
func TruncateQuery(q string) string {
	if len(q) <= QueryLogLimit {
		return q
	}
	return q[:QueryLogLimit]
}

// ConsultResult is the outcome of one consultation with an agent. Failures
// are expressed here rather than as errors so callers always receive a
// well-formed result.
type ConsultResult struct {
	Success   bool           `json:"success"`
	AgentName string         `json:"agent,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Cached    bool           `json:"cached"`
	Attempts  int            `json:"attempts,omitempty"`

	// AvailableAgents is populated on not-found and no-candidate failures
	// so the caller can see what the registry does know about.
	AvailableAgents []string `json:"availableAgents,omitempty"`
}

// ConsultationRecord is an immutable history entry created once per
// completed consultation (success or exhausted retries). Cache hits do not
// produce records.
type ConsultationRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	ToAgent   string        `json:"toAgent"`
	Query     string        `json:"query"` // truncated to QueryLogLimit
	Result    ConsultResult `json:"result"`
	Attempts  int           `json:"attempts"`
}
