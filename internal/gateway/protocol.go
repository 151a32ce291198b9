package gateway

import "time"

// Event is the envelope broadcast to WebSocket listeners. Seq is a
// server-scoped monotonic sequence so clients can detect gaps.
type Event struct {
	Event   string    `json:"event"`
	Seq     int64     `json:"seq"`
	Ts      time.Time `json:"ts"`
	Payload any       `json:"payload,omitempty"`
}

// Broadcast event names.
const (
	EventConsultation = "consultation"
	EventActivity     = "activity"
)

// RouteRequest is the body of POST /api/route.
type RouteRequest struct {
	Query   string         `json:"query"`
	Context map[string]any `json:"context,omitempty"`
}

// ConsultRequest is the body of POST /api/consult.
type ConsultRequest struct {
	Agent          string         `json:"agent"`
	Query          string         `json:"query"`
	Context        map[string]any `json:"context,omitempty"`
	TimeoutSeconds int            `json:"timeoutSeconds,omitempty"`
	NoCache        bool           `json:"noCache,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Agents    int    `json:"agents"`
	Clients   int    `json:"clients"`
	CacheSize int    `json:"cacheSize"`
	UptimeSec int64  `json:"uptimeSec"`
}

// AgentSummary is one entry in GET /api/agents.
type AgentSummary struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
	Total        int      `json:"total"`
	Successful   int      `json:"successful"`
	Failed       int      `json:"failed"`
	SuccessRate  float64  `json:"successRate"`
}

// ErrorResponse is the JSON error body for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
