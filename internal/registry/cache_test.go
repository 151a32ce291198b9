package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoq/switchboard/internal/domain"
)

func TestResultCache_FIFOEviction(t *testing.T) {
	c := newResultCache(3)
	for i := 0; i < 3; i++ {
		c.put(fmt.Sprintf("k%d", i), domain.ConsultResult{AgentName: fmt.Sprintf("a%d", i)})
	}
	require.Equal(t, 3, c.len())

	// Adding a fourth entry evicts the oldest inserted key, never a newer one.
	c.put("k3", domain.ConsultResult{AgentName: "a3"})
	assert.Equal(t, 3, c.len())

	_, ok := c.get("k0")
	assert.False(t, ok)
	for i := 1; i <= 3; i++ {
		_, ok := c.get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestResultCache_UpdateKeepsSlot(t *testing.T) {
	c := newResultCache(2)
	c.put("a", domain.ConsultResult{AgentName: "one"})
	c.put("b", domain.ConsultResult{AgentName: "two"})
	c.put("a", domain.ConsultResult{AgentName: "one-updated"})

	// "a" keeps its original slot, so it is still the eviction candidate.
	c.put("c", domain.ConsultResult{AgentName: "three"})
	_, ok := c.get("a")
	assert.False(t, ok)

	got, ok := c.get("b")
	require.True(t, ok)
	assert.Equal(t, "two", got.AgentName)
}

func TestResultCache_Clear(t *testing.T) {
	c := newResultCache(2)
	c.put("a", domain.ConsultResult{})
	c.clear()
	assert.Zero(t, c.len())

	// Usable after clearing.
	c.put("b", domain.ConsultResult{})
	assert.Equal(t, 1, c.len())
}

func TestCacheKey_UnmarshalableContext(t *testing.T) {
	_, ok := cacheKey("Alpha", "q", map[string]any{"bad": func() {}})
	assert.False(t, ok)
}
