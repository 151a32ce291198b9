package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Consultation is one persisted consultation record.
type Consultation struct {
	ID        string
	From      string
	To        string
	Query     string
	Success   bool
	Duration  time.Duration
	Payload   map[string]any
	CreatedAt time.Time
}

// Activity is one persisted agent activity.
type Activity struct {
	ID          string
	Agent       string
	Type        string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// AgentStats aggregates an agent's persisted consultation record.
type AgentStats struct {
	Agent           string
	Total           int
	Successful      int
	Failed          int
	SuccessRate     float64
	AvgDuration     time.Duration
	TotalActivities int
}

// ReportingStore persists consultations and activities. Writes are
// best-effort: a failed insert is logged, never surfaced to the
// consultation path.
type ReportingStore struct {
	db *DB
}

// NewReportingStore creates a reporting store using the given database.
func NewReportingStore(db *DB) *ReportingStore {
	return &ReportingStore{db: db}
}

// LogConsultation records one executed consultation.
func (s *ReportingStore) LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any) {
	var payloadJSON sql.NullString
	if len(payload) > 0 {
		if data, err := json.Marshal(payload); err == nil {
			payloadJSON = sql.NullString{String: string(data), Valid: true}
		}
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO consultations (id, from_agent, to_agent, query, success, duration_ms, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), from, to, query, boolToInt(success),
		duration.Milliseconds(), payloadJSON, time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("to", to).Msg("failed to record consultation")
	}
}

// LogActivity records one agent activity.
func (s *ReportingStore) LogActivity(agent, activityType, description string, meta map[string]any) {
	var metaJSON sql.NullString
	if len(meta) > 0 {
		if data, err := json.Marshal(meta); err == nil {
			metaJSON = sql.NullString{String: string(data), Valid: true}
		}
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO activities (id, agent, activity_type, description, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), agent, activityType, description, metaJSON,
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("agent", agent).Msg("failed to record activity")
	}
}

// RecentConsultations returns the newest consultations, newest first.
// An empty agent name matches all agents.
func (s *ReportingStore) RecentConsultations(agent string, limit int) ([]Consultation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.sql.Query(
		`SELECT id, from_agent, to_agent, query, success, duration_ms, payload, created_at
		 FROM consultations
		 WHERE (? = '' OR to_agent = ?)
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		agent, agent, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Consultation
	for rows.Next() {
		var c Consultation
		var success int
		var durationMS int64
		var payloadJSON sql.NullString
		var createdAt string

		if err := rows.Scan(&c.ID, &c.From, &c.To, &c.Query, &success, &durationMS, &payloadJSON, &createdAt); err != nil {
			return nil, err
		}
		c.Success = success != 0
		c.Duration = time.Duration(durationMS) * time.Millisecond
		c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		if payloadJSON.Valid && payloadJSON.String != "" {
			_ = json.Unmarshal([]byte(payloadJSON.String), &c.Payload)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentActivities returns the newest activities, newest first. An empty
// agent name matches all agents.
func (s *ReportingStore) RecentActivities(agent string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.sql.Query(
		`SELECT id, agent, activity_type, description, metadata, created_at
		 FROM activities
		 WHERE (? = '' OR agent = ?)
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		agent, agent, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		var metaJSON sql.NullString
		var createdAt string

		if err := rows.Scan(&a.ID, &a.Agent, &a.Type, &a.Description, &metaJSON, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		if metaJSON.Valid && metaJSON.String != "" {
			_ = json.Unmarshal([]byte(metaJSON.String), &a.Metadata)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Stats aggregates the persisted record of one agent.
func (s *ReportingStore) Stats(agent string) (AgentStats, error) {
	stats := AgentStats{Agent: agent}

	var avgMS sql.NullFloat64
	err := s.db.sql.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0), AVG(duration_ms)
		 FROM consultations WHERE to_agent = ?`, agent,
	).Scan(&stats.Total, &stats.Successful, &avgMS)
	if err != nil {
		return AgentStats{}, err
	}
	stats.Failed = stats.Total - stats.Successful
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Successful) / float64(stats.Total)
	}
	if avgMS.Valid {
		stats.AvgDuration = time.Duration(avgMS.Float64 * float64(time.Millisecond))
	}

	err = s.db.sql.QueryRow(
		`SELECT COUNT(*) FROM activities WHERE agent = ?`, agent,
	).Scan(&stats.TotalActivities)
	if err != nil {
		return AgentStats{}, err
	}
	return stats, nil
}

// Agents lists every agent name seen in consultations or activities.
func (s *ReportingStore) Agents() ([]string, error) {
	rows, err := s.db.sql.Query(
		`SELECT to_agent FROM consultations
		 UNION SELECT agent FROM activities
		 ORDER BY 1`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
