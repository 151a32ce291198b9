// Package reporting provides Reporter implementations: structured log
// output and fan-out composition. The SQLite-backed reporter lives in
// the store package; the gateway broadcasts events itself.
package reporting

import (
	"time"

	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/logging"
)

// LogReporter writes consultation and activity events to the log.
type LogReporter struct {
	log *logging.Logger
}

func NewLogReporter(log *logging.Logger) *LogReporter {
	return &LogReporter{log: log.Sub("reporting")}
}

func (r *LogReporter) LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any) {
	r.log.Info().
		Str("from", from).
		Str("to", to).
		Str("query", domain.TruncateQuery(query)).
		Bool("success", success).
		Dur("duration", duration).
		Msg("consultation")
}

func (r *LogReporter) LogActivity(agent, activityType, description string, meta map[string]any) {
	r.log.Info().
		Str("agent", agent).
		Str("type", activityType).
		Str("description", description).
		Msg("activity")
}

// Multi fans every event out to each reporter in order. Nil entries are
// skipped so callers can compose optional sinks without branching.
type Multi struct {
	reporters []domain.Reporter
}

func NewMulti(reporters ...domain.Reporter) *Multi {
	kept := make([]domain.Reporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &Multi{reporters: kept}
}

func (m *Multi) LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any) {
	for _, r := range m.reporters {
		r.LogConsultation(from, to, query, success, duration, payload)
	}
}

func (m *Multi) LogActivity(agent, activityType, description string, meta map[string]any) {
	for _, r := range m.reporters {
		r.LogActivity(agent, activityType, description, meta)
	}
}
