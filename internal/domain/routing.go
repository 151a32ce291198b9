package domain

import "time"

// Intent is the router's transient classification of a query. It is
// recomputed on every Route call and never persisted.
type Intent struct {
	Primary                string         `json:"primaryIntent"`
	Scores                 map[string]int `json:"intentScores"`
	Confidence             float64        `json:"confidence"`
	RequiresMultipleAgents bool           `json:"requiresMultipleAgents"`
}

// RoutingType distinguishes single-agent dispatch from orchestration.
type RoutingType string

const (
	RoutingSingle       RoutingType = "single"
	RoutingOrchestrated RoutingType = "orchestrated"
)

// AgentResponse is one agent's contribution to an orchestrated routing.
type AgentResponse struct {
	Agent   string         `json:"agent"`
	Score   float64        `json:"score"`
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// CombinedResult merges the successful responses of an orchestration.
// With fewer than two successes Combined is false and Primary carries the
// single payload (or nothing at all). Payloads are opaque; no field-level
// merging is attempted.
type CombinedResult struct {
	Combined      bool            `json:"combined"`
	Primary       map[string]any  `json:"primaryResponse,omitempty"`
	PrimaryAgent  string          `json:"primaryAgent,omitempty"`
	Supplementary []AgentResponse `json:"supplementaryResponses,omitempty"`
	Errors        []string        `json:"errors,omitempty"`
}

// RoutingResult is what Route returns to the caller.
type RoutingResult struct {
	Success      bool            `json:"success"`
	Type         RoutingType     `json:"routingType,omitempty"`
	Query        string          `json:"query"`
	Intent       Intent          `json:"intent"`
	AgentsUsed   []string        `json:"agentsUsed,omitempty"`
	PrimaryAgent string          `json:"primaryAgent,omitempty"`
	Responses    []AgentResponse `json:"agentResponses,omitempty"`
	Combined     CombinedResult  `json:"combinedResponse"`
	Error        string          `json:"error,omitempty"`

	// AvailableAgents is populated when no agent qualified for the query.
	AvailableAgents []string `json:"availableAgents,omitempty"`
}

// RoutingRecord is an immutable history entry appended after every Route
// call, successful or not.
type RoutingRecord struct {
	Timestamp  time.Time     `json:"timestamp"`
	Query      string        `json:"query"` // truncated to QueryLogLimit
	Intent     Intent        `json:"intent"`
	AgentsUsed []string      `json:"agentsUsed"`
	Result     RoutingResult `json:"result"`
}
