package domain

import "time"

// Reporter receives consultation and activity notifications. Reporting is
// best-effort: implementations must not block or fail the caller, and the
// registry and router tolerate a nil Reporter.
type Reporter interface {
	// LogConsultation records one consultation exchange.
	LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any)

	// LogActivity records a non-consultation event such as a routing
	// decision.
	LogActivity(agent, activityType, description string, meta map[string]any)
}
