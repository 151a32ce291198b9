package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name string
		perf AgentPerformance
		want float64
	}{
		{"no history uses optimistic prior", AgentPerformance{}, 0.5},
		{"all successes", AgentPerformance{Total: 4, Successful: 4}, 1.0},
		{"all failures", AgentPerformance{Total: 2, Failed: 2}, 0.0},
		{"mixed", AgentPerformance{Total: 4, Successful: 3, Failed: 1}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.perf.SuccessRate(), 1e-9)
		})
	}
}

func TestTruncateQuery(t *testing.T) {
	short := "run the billing tests"
	assert.Equal(t, short, TruncateQuery(short))

	long := strings.Repeat("x", QueryLogLimit+50)
	got := TruncateQuery(long)
	assert.Len(t, got, QueryLogLimit)
	assert.True(t, strings.HasPrefix(long, got))
}
