// Package domain defines the agent contract and the value types shared by
// the registry, router and reporting layers.
package domain

import "context"

// Agent is the interface every routable agent implements. Agents describe
// themselves through a name and a capability list, judge whether they can
// help with a free-text query, and produce a structured answer.
type Agent interface {
	// Name returns the agent identifier (e.g. "TestAgent").
	Name() string

	// Capabilities returns human-readable capability strings used for
	// relevance scoring.
	Capabilities() []string

	// CanHandle reports whether the agent is willing to take the query.
	CanHandle(query string) bool

	// Consult answers the query. The payload is opaque to the caller;
	// the registry and router never interpret it beyond merging.
	Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error)
}

// AgentPerformance tracks rolling consultation counters for one agent.
type AgentPerformance struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// SuccessRate returns successful/total. An agent with no history gets an
// optimistic 0.5 prior so untested agents are not starved in ranking.
func (p AgentPerformance) SuccessRate() float64 {
	if p.Total == 0 {
		return 0.5
	}
	return float64(p.Successful) / float64(p.Total)
}
