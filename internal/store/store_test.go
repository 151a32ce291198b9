package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoq/switchboard/internal/logging"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	var count int
	err := db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	// Both tables must exist.
	for _, table := range []string{"consultations", "activities"} {
		var n int
		err := db.SQL().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
		require.NoError(t, err, table)
	}
}

func TestReportingStore_ConsultationRoundtrip(t *testing.T) {
	s := NewReportingStore(openTestDB(t))

	s.LogConsultation("router", "TestAgent", "run the suite", true, 120*time.Millisecond,
		map[string]any{"plan": []any{"execute"}})
	s.LogConsultation("registry", "TestAgent", "run again", false, 30*time.Millisecond, nil)

	got, err := s.RecentConsultations("TestAgent", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "run again", got[0].Query)
	assert.False(t, got[0].Success)
	assert.Nil(t, got[0].Payload)

	assert.Equal(t, "run the suite", got[1].Query)
	assert.True(t, got[1].Success)
	assert.Equal(t, "router", got[1].From)
	assert.Equal(t, 120*time.Millisecond, got[1].Duration)
	assert.Equal(t, map[string]any{"plan": []any{"execute"}}, got[1].Payload)
}

func TestReportingStore_RecentConsultationsFilters(t *testing.T) {
	s := NewReportingStore(openTestDB(t))
	s.LogConsultation("router", "a", "q1", true, 0, nil)
	s.LogConsultation("router", "b", "q2", true, 0, nil)

	all, err := s.RecentConsultations("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := s.RecentConsultations("a", 10)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "a", onlyA[0].To)
}

func TestReportingStore_ActivityRoundtrip(t *testing.T) {
	s := NewReportingStore(openTestDB(t))
	s.LogActivity("GitLabAgent", "routing", "routed query: sync project",
		map[string]any{"intent": "gitlab"})

	got, err := s.RecentActivities("GitLabAgent", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "routing", got[0].Type)
	assert.Equal(t, "routed query: sync project", got[0].Description)
	assert.Equal(t, map[string]any{"intent": "gitlab"}, got[0].Metadata)
	assert.NotEmpty(t, got[0].ID)
}

func TestReportingStore_Stats(t *testing.T) {
	s := NewReportingStore(openTestDB(t))
	s.LogConsultation("router", "a", "q1", true, 100*time.Millisecond, nil)
	s.LogConsultation("router", "a", "q2", true, 200*time.Millisecond, nil)
	s.LogConsultation("router", "a", "q3", false, 300*time.Millisecond, nil)
	s.LogActivity("a", "routing", "routed", nil)

	stats, err := s.Stats("a")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 1e-9)
	assert.Equal(t, 200*time.Millisecond, stats.AvgDuration)
	assert.Equal(t, 1, stats.TotalActivities)
}

func TestReportingStore_StatsEmpty(t *testing.T) {
	s := NewReportingStore(openTestDB(t))
	stats, err := s.Stats("ghost")
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.SuccessRate)
	assert.Zero(t, stats.AvgDuration)
}

func TestReportingStore_Agents(t *testing.T) {
	s := NewReportingStore(openTestDB(t))
	s.LogConsultation("router", "b", "q", true, 0, nil)
	s.LogActivity("a", "routing", "routed", nil)
	s.LogActivity("b", "routing", "routed", nil)

	names, err := s.Agents()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}
