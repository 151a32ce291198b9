// Package registry owns the set of available agents and executes single
// agent consultations with caching, timeout, retry and bookkeeping.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/logging"
)

// Config controls consultation execution.
type Config struct {
	// EnableCaching toggles the result cache.
	EnableCaching bool

	// DefaultTimeout bounds a single consultation attempt when the caller
	// does not supply one.
	DefaultTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt, so a
	// permanently failing agent is invoked MaxRetries+1 times.
	MaxRetries int

	// CacheMaxSize bounds the FIFO result cache.
	CacheMaxSize int

	// HistoryLimit bounds the in-memory consultation history. Zero keeps
	// the default.
	HistoryLimit int
}

// DefaultConfig returns the stock execution settings.
func DefaultConfig() Config {
	return Config{
		EnableCaching:  true,
		DefaultTimeout: 30 * time.Second,
		MaxRetries:     2,
		CacheMaxSize:   100,
		HistoryLimit:   1000,
	}
}

// ConsultOptions tune a single Consult call.
type ConsultOptions struct {
	// Timeout overrides the registry default for this call.
	Timeout time.Duration

	// NoCache bypasses cache lookup and storage for this call.
	NoCache bool

	// From names the caller for reporting attribution.
	From string
}

// Candidate pairs an agent with its relevance score for a query.
type Candidate struct {
	Agent domain.Agent
	Score float64
}

// AgentInfo describes a registered agent for status surfaces.
type AgentInfo struct {
	Name         string                  `json:"name"`
	Capabilities []string                `json:"capabilities"`
	Performance  domain.AgentPerformance `json:"performance"`
}

// Registry holds named agents and runs consultations against them.
type Registry struct {
	cfg      Config
	reporter domain.Reporter
	log      *logging.Logger

	mu      sync.RWMutex
	agents  map[string]domain.Agent
	order   []string // registration order, for stable ranking ties
	cache   *resultCache
	history []domain.ConsultationRecord
	perf    map[string]*domain.AgentPerformance

	// backoff computes the wait before retry attempt+1. Overridable in
	// tests so retry paths don't sleep for real.
	backoff func(attempt int) time.Duration
}

// New creates a registry. The reporter may be nil.
func New(cfg Config, reporter domain.Reporter, log *logging.Logger) *Registry {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}
	if cfg.CacheMaxSize <= 0 {
		cfg.CacheMaxSize = 100
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 1000
	}
	return &Registry{
		cfg:      cfg,
		reporter: reporter,
		log:      log.Sub("registry"),
		agents:   make(map[string]domain.Agent),
		cache:    newResultCache(cfg.CacheMaxSize),
		perf:     make(map[string]*domain.AgentPerformance),
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<attempt) * time.Second
		},
	}
}

// Register adds an agent. Registering a name twice overwrites the previous
// agent but keeps its original position for ranking tie-breaks.
func (r *Registry) Register(agent domain.Agent) {
	name := agent.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; !exists {
		r.order = append(r.order, name)
	}
	r.agents[name] = agent
	r.log.Info().Str("agent", name).Msg("agent registered")
}

// Get returns an agent by name.
func (r *Registry) Get(name string) (domain.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// List returns all agent names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Describe returns agent metadata with current performance counters.
func (r *Registry) Describe() []AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]AgentInfo, 0, len(r.order))
	for _, name := range r.order {
		agent := r.agents[name]
		info := AgentInfo{
			Name:         name,
			Capabilities: append([]string(nil), agent.Capabilities()...),
		}
		if p, ok := r.perf[name]; ok {
			info.Performance = *p
		}
		infos = append(infos, info)
	}
	return infos
}

// FindCandidates returns the agents willing to handle the query, ranked by
// relevance. Agents whose CanHandle rejects the query are excluded
// entirely. The sort is stable, so equal scores keep registration order.
func (r *Registry) FindCandidates(query string) []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	queryWords := strings.Fields(strings.ToLower(query))
	var candidates []Candidate
	for _, name := range r.order {
		agent := r.agents[name]
		if !agent.CanHandle(query) {
			continue
		}
		candidates = append(candidates, Candidate{
			Agent: agent,
			Score: r.relevanceScore(agent, queryWords),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// relevanceScore blends capability-text matching with historical success
// rate into a [0,1] ranking heuristic. Callers hold at least a read lock.
func (r *Registry) relevanceScore(agent domain.Agent, queryWords []string) float64 {
	// Base for passing CanHandle.
	score := 0.3

	nameLower := strings.ToLower(agent.Name())
	nameMatches := 0
	for _, w := range queryWords {
		if strings.Contains(nameLower, w) {
			nameMatches++
		}
	}
	score += min(0.2, float64(nameMatches)*0.1)

	capMatches := 0
	for _, capability := range agent.Capabilities() {
		capLower := strings.ToLower(capability)
		for _, w := range queryWords {
			if strings.Contains(capLower, w) {
				capMatches++
				break
			}
		}
	}
	score += min(0.3, float64(capMatches)*0.1)

	rate := 0.5
	if p, ok := r.perf[agent.Name()]; ok {
		rate = p.SuccessRate()
	}
	score += 0.2 * rate

	return min(score, 1.0)
}

// Consult runs one consultation against a named agent, with cache lookup,
// per-attempt timeout and exponential-backoff retries. Every executed
// consultation (success or exhausted failure) appends exactly one history
// record and one performance update; cache hits produce neither.
func (r *Registry) Consult(ctx context.Context, agentName, query string, qctx map[string]any, opts ConsultOptions) domain.ConsultResult {
	agent, ok := r.Get(agentName)
	if !ok {
		r.log.Warn().Str("agent", agentName).Msg("consult target not registered")
		return domain.ConsultResult{
			Success:         false,
			AgentName:       agentName,
			Error:           fmt.Sprintf("%s: %q", ErrAgentNotFound, agentName),
			AvailableAgents: r.List(),
		}
	}

	useCache := r.cfg.EnableCaching && !opts.NoCache
	key, keyOK := "", false
	if useCache {
		key, keyOK = cacheKey(agentName, query, qctx)
		if keyOK {
			r.mu.RLock()
			cached, hit := r.cache.get(key)
			r.mu.RUnlock()
			if hit {
				r.log.Debug().Str("agent", agentName).Msg("cache hit")
				cached.Cached = true
				return cached
			}
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.cfg.DefaultTimeout
	}

	start := time.Now()
	attempts := r.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		r.log.Info().
			Str("agent", agentName).
			Str("query", domain.TruncateQuery(query)).
			Int("attempt", attempt+1).
			Int("maxAttempts", attempts).
			Msg("consulting agent")

		payload, err := r.consultWithTimeout(ctx, agent, query, qctx, timeout)
		if err == nil {
			result := domain.ConsultResult{
				Success:   true,
				AgentName: agentName,
				Payload:   payload,
				Duration:  time.Since(start),
				Attempts:  attempt + 1,
			}
			r.finish(agentName, query, result, useCache && keyOK, key, opts.From)
			return result
		}

		lastErr = err
		r.log.Warn().
			Err(err).
			Str("agent", agentName).
			Int("attempt", attempt+1).
			Msg("consultation attempt failed")

		if attempt == attempts-1 {
			break
		}
		if waitErr := r.wait(ctx, r.backoff(attempt)); waitErr != nil {
			lastErr = waitErr
			break
		}
	}

	result := domain.ConsultResult{
		Success:   false,
		AgentName: agentName,
		Error:     lastErr.Error(),
		Duration:  time.Since(start),
		Attempts:  attempts,
	}
	r.finish(agentName, query, result, false, "", opts.From)
	return result
}

// ConsultBest ranks the candidates for a query and consults the top one.
func (r *Registry) ConsultBest(ctx context.Context, query string, qctx map[string]any, opts ConsultOptions) domain.ConsultResult {
	candidates := r.FindCandidates(query)
	if len(candidates) == 0 {
		return domain.ConsultResult{
			Success:         false,
			Error:           ErrNoCandidates.Error(),
			AvailableAgents: r.List(),
		}
	}

	best := candidates[0]
	r.log.Info().
		Str("agent", best.Agent.Name()).
		Float64("score", best.Score).
		Int("candidates", len(candidates)).
		Msg("selected best agent")
	return r.Consult(ctx, best.Agent.Name(), query, qctx, opts)
}

// consultWithTimeout runs the agent call in its own goroutine and stops
// waiting at the deadline. A hung agent cannot block the caller; its
// goroutine is abandoned and its eventual result discarded.
func (r *Registry) consultWithTimeout(ctx context.Context, agent domain.Agent, query string, qctx map[string]any, timeout time.Duration) (map[string]any, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		payload map[string]any
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("agent panic: %v", p)}
			}
		}()
		payload, err := agent.Consult(cctx, query, qctx)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		return out.payload, out.err
	case <-cctx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w after %s", ErrConsultTimeout, timeout)
	}
}

// wait sleeps for the backoff interval, aborting early on cancellation.
func (r *Registry) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish applies the single history record and performance update owed by
// every executed consultation, caches successful results and notifies the
// reporter.
func (r *Registry) finish(agentName, query string, result domain.ConsultResult, cacheIt bool, key, from string) {
	record := domain.ConsultationRecord{
		Timestamp: time.Now(),
		ToAgent:   agentName,
		Query:     domain.TruncateQuery(query),
		Result:    result,
		Attempts:  result.Attempts,
	}

	r.mu.Lock()
	r.history = append(r.history, record)
	if over := len(r.history) - r.cfg.HistoryLimit; over > 0 {
		r.history = append([]domain.ConsultationRecord(nil), r.history[over:]...)
	}

	p, ok := r.perf[agentName]
	if !ok {
		p = &domain.AgentPerformance{}
		r.perf[agentName] = p
	}
	p.Total++
	if result.Success {
		p.Successful++
	} else {
		p.Failed++
	}

	if cacheIt && result.Success {
		r.cache.put(key, result)
	}
	r.mu.Unlock()

	if r.reporter != nil {
		if from == "" {
			from = "registry"
		}
		r.reporter.LogConsultation(from, agentName, domain.TruncateQuery(query),
			result.Success, result.Duration, result.Payload)
	}
}

// History returns the most recent consultation records, oldest first.
// A non-positive limit returns everything retained.
func (r *Registry) History(limit int) []domain.ConsultationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.history
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return append([]domain.ConsultationRecord(nil), records...)
}

// Performance returns a snapshot of all per-agent counters.
func (r *Registry) Performance() map[string]domain.AgentPerformance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.AgentPerformance, len(r.perf))
	for name, p := range r.perf {
		out[name] = *p
	}
	return out
}

// PerformanceFor returns one agent's counters.
func (r *Registry) PerformanceFor(name string) domain.AgentPerformance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.perf[name]; ok {
		return *p
	}
	return domain.AgentPerformance{}
}

// ResetPerformance clears all performance counters. Operator action only;
// nothing resets them implicitly.
func (r *Registry) ResetPerformance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perf = make(map[string]*domain.AgentPerformance)
}

// CacheSize returns the number of cached results.
func (r *Registry) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.len()
}

// ClearCache drops all cached results.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.clear()
	r.log.Info().Msg("cache cleared")
}
