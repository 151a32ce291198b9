// Package rules enforces the one global policy: every task-performing
// operation must be agent-mediated. The gate is advisory; it records
// violations but performs no enforcement side effect.
package rules

import (
	"sync"
	"time"

	"github.com/nikoq/switchboard/internal/logging"
)

// RuleAlwaysUseAgents is the single rule this gate knows about.
const RuleAlwaysUseAgents = "always_use_agents"

// Status classifies a permission decision.
type Status string

const (
	StatusGranted     Status = "granted"
	StatusDenied      Status = "denied"
	StatusNotRequired Status = "not_required"
)

// Decision is the outcome of validating an operation.
type Decision struct {
	Permitted bool   `json:"permitted"`
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
	Operation string `json:"operation"`
}

// Violation is an append-only record of a denied operation.
type Violation struct {
	Timestamp     time.Time      `json:"timestamp"`
	Rule          string         `json:"rule"`
	OperationType string         `json:"operationType"`
	Operation     string         `json:"operation"`
	Details       map[string]any `json:"details,omitempty"`
}

// Gate validates operations against the always-use-agents rule.
type Gate struct {
	log *logging.Logger

	mu         sync.Mutex
	violations []Violation
}

// NewGate creates a policy gate.
func NewGate(log *logging.Logger) *Gate {
	return &Gate{log: log.Sub("rules")}
}

// Validate checks an operation's details for the agent_used flag. Details
// that carry the flag set to true pass; details without it are denied and
// recorded. Operations with no details at all need no permission.
func (g *Gate) Validate(operationType, operation string, details map[string]any) Decision {
	if details == nil {
		return Decision{
			Permitted: true,
			Status:    StatusNotRequired,
			Message:   "operation does not require special permission",
			Operation: operation,
		}
	}
	if agentUsed(details) {
		return Decision{
			Permitted: true,
			Status:    StatusGranted,
			Operation: operation,
		}
	}
	g.recordViolation(operationType, operation, details)
	return Decision{
		Permitted: false,
		Status:    StatusDenied,
		Message:   "operation performed without using agents; all tasks must go through an agent",
		Operation: operation,
	}
}

// RequireAgent is the strict form: missing details count as a violation.
func (g *Gate) RequireAgent(operation string, details map[string]any) Decision {
	if agentUsed(details) {
		return Decision{
			Permitted: true,
			Status:    StatusGranted,
			Operation: operation,
		}
	}
	g.recordViolation("agent_usage", operation, details)
	return Decision{
		Permitted: false,
		Status:    StatusDenied,
		Message:   "operation performed without using agents; all tasks must go through an agent",
		Operation: operation,
	}
}

// Violations returns a copy of all recorded violations.
func (g *Gate) Violations() []Violation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Violation(nil), g.violations...)
}

func (g *Gate) recordViolation(operationType, operation string, details map[string]any) {
	v := Violation{
		Timestamp:     time.Now(),
		Rule:          RuleAlwaysUseAgents,
		OperationType: operationType,
		Operation:     operation,
		Details:       details,
	}
	g.mu.Lock()
	g.violations = append(g.violations, v)
	g.mu.Unlock()

	g.log.Warn().
		Str("rule", RuleAlwaysUseAgents).
		Str("operationType", operationType).
		Str("operation", operation).
		Msg("rule violation recorded")
}

func agentUsed(details map[string]any) bool {
	used, ok := details["agent_used"].(bool)
	return ok && used
}
