package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create consultations and activities",
		SQL: `
			CREATE TABLE consultations (
				id           TEXT PRIMARY KEY,
				from_agent   TEXT NOT NULL,
				to_agent     TEXT NOT NULL,
				query        TEXT NOT NULL,
				success      INTEGER NOT NULL,
				duration_ms  INTEGER NOT NULL DEFAULT 0,
				payload      TEXT,
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_consultations_to ON consultations (to_agent, created_at);
			CREATE INDEX idx_consultations_from ON consultations (from_agent);

			CREATE TABLE activities (
				id            TEXT PRIMARY KEY,
				agent         TEXT NOT NULL,
				activity_type TEXT NOT NULL,
				description   TEXT NOT NULL,
				metadata      TEXT,
				created_at    TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_activities_agent ON activities (agent, created_at);
			CREATE INDEX idx_activities_type ON activities (activity_type);
		`,
	},
}
