package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoq/switchboard/internal/logging"
)

func TestValidate_AgentUsed(t *testing.T) {
	g := NewGate(logging.Nop())
	d := g.Validate("routing", "route query", map[string]any{"agent_used": true})
	assert.True(t, d.Permitted)
	assert.Equal(t, StatusGranted, d.Status)
	assert.Empty(t, g.Violations())
}

func TestValidate_MissingFlagDeniesAndRecords(t *testing.T) {
	g := NewGate(logging.Nop())
	d := g.Validate("file_write", "write report", map[string]any{"path": "/tmp/x"})
	assert.False(t, d.Permitted)
	assert.Equal(t, StatusDenied, d.Status)

	violations := g.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, RuleAlwaysUseAgents, violations[0].Rule)
	assert.Equal(t, "file_write", violations[0].OperationType)
	assert.False(t, violations[0].Timestamp.IsZero())
}

func TestValidate_FlagFalseDenies(t *testing.T) {
	g := NewGate(logging.Nop())
	d := g.Validate("api_call", "call endpoint", map[string]any{"agent_used": false})
	assert.False(t, d.Permitted)
	assert.Len(t, g.Violations(), 1)
}

func TestValidate_NilDetailsNotRequired(t *testing.T) {
	g := NewGate(logging.Nop())
	d := g.Validate("noop", "nothing", nil)
	assert.True(t, d.Permitted)
	assert.Equal(t, StatusNotRequired, d.Status)
	assert.Empty(t, g.Violations())
}

func TestRequireAgent_StrictOnNilDetails(t *testing.T) {
	g := NewGate(logging.Nop())
	d := g.RequireAgent("direct task", nil)
	assert.False(t, d.Permitted)
	assert.Len(t, g.Violations(), 1)
}

func TestViolations_AppendOnly(t *testing.T) {
	g := NewGate(logging.Nop())
	g.Validate("a", "one", map[string]any{})
	g.Validate("b", "two", map[string]any{})

	violations := g.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, "one", violations[0].Operation)
	assert.Equal(t, "two", violations[1].Operation)

	// The returned slice is a copy.
	violations[0].Operation = "mutated"
	assert.Equal(t, "one", g.Violations()[0].Operation)
}
