package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/nikoq/switchboard/internal/domain"
)

// cacheKey derives a stable key from the consultation inputs. The context
// map goes through encoding/json, which sorts map keys at every level, so
// insertion order never changes the key. An unmarshalable context disables
// caching for that call.
func cacheKey(agentName, query string, qctx map[string]any) (string, bool) {
	payload := struct {
		Agent   string         `json:"agent"`
		Query   string         `json:"query"`
		Context map[string]any `json:"context"`
	}{agentName, query, qctx}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

// resultCache is a bounded FIFO cache of terminal consultation results.
// Eviction removes the oldest inserted key first. The cache is not safe
// for concurrent use on its own; the registry's mutex guards it.
type resultCache struct {
	max     int
	entries map[string]domain.ConsultResult
	order   []string
}

func newResultCache(max int) *resultCache {
	return &resultCache{
		max:     max,
		entries: make(map[string]domain.ConsultResult),
	}
}

func (c *resultCache) get(key string) (domain.ConsultResult, bool) {
	res, ok := c.entries[key]
	return res, ok
}

func (c *resultCache) put(key string, res domain.ConsultResult) {
	if _, exists := c.entries[key]; exists {
		// Updating an existing key keeps its original insertion slot.
		c.entries[key] = res
		return
	}
	if c.max > 0 && len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = res
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	return len(c.entries)
}

func (c *resultCache) clear() {
	c.entries = make(map[string]domain.ConsultResult)
	c.order = nil
}
