// Package router classifies query intent, selects one or several competent
// agents, orchestrates multi-agent consultation and merges the results.
package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/logging"
	"github.com/nikoq/switchboard/internal/registry"
	"github.com/nikoq/switchboard/internal/rules"
)

// routerCaller attributes registry consultations made on behalf of routing.
const routerCaller = "router"

// Config controls routing behavior.
type Config struct {
	// MaxAgents caps how many agents one query is orchestrated across.
	MaxAgents int

	// HistoryLimit bounds the in-memory routing history. Zero keeps the
	// default.
	HistoryLimit int

	// ExtraKeywords extends the built-in intent table, keyed by category.
	ExtraKeywords map[string][]string
}

// Scored pairs an agent with its competence score for a query.
type Scored struct {
	Agent domain.Agent
	Score float64
}

// Router routes queries to the agents best suited to answer them.
type Router struct {
	reg      *registry.Registry
	gate     *rules.Gate
	reporter domain.Reporter
	log      *logging.Logger

	maxAgents    int
	historyLimit int
	intents      []intentCategory

	mu      sync.Mutex
	history []domain.RoutingRecord
}

// New creates a router on top of a registry. Gate and reporter may be nil.
func New(cfg Config, reg *registry.Registry, gate *rules.Gate, reporter domain.Reporter, log *logging.Logger) *Router {
	if cfg.MaxAgents <= 0 {
		cfg.MaxAgents = 3
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 1000
	}
	return &Router{
		reg:          reg,
		gate:         gate,
		reporter:     reporter,
		log:          log.Sub("router"),
		maxAgents:    cfg.MaxAgents,
		historyLimit: cfg.HistoryLimit,
		intents:      mergeKeywords(defaultIntentTable(), cfg.ExtraKeywords),
	}
}

// FindCompetent returns the agents competent for a query, ranked by score.
// With more than one qualifier, at most MaxAgents are returned.
func (rt *Router) FindCompetent(query string, intent domain.Intent) []Scored {
	queryWords := strings.Fields(strings.ToLower(query))

	var scored []Scored
	for _, name := range rt.reg.List() {
		agent, ok := rt.reg.Get(name)
		if !ok || !agent.CanHandle(query) {
			continue
		}
		scored = append(scored, Scored{
			Agent: agent,
			Score: rt.competenceScore(agent, queryWords, intent),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > 1 && len(scored) > rt.maxAgents {
		scored = scored[:rt.maxAgents]
	}
	return scored
}

// competenceScore rates how suited an agent is to the classified query.
func (rt *Router) competenceScore(agent domain.Agent, queryWords []string, intent domain.Intent) float64 {
	// Base for passing CanHandle.
	score := 0.3

	if rt.matchesCategory(agent.Name(), intent.Primary) {
		score += 0.4
	}

	for _, capability := range agent.Capabilities() {
		capLower := strings.ToLower(capability)
		for _, w := range queryWords {
			if strings.Contains(capLower, w) {
				score += 0.1
				break
			}
		}
	}

	return min(score, 1.0)
}

// Route is the main entry point: classify, select, dispatch or
// orchestrate, merge, record.
func (rt *Router) Route(ctx context.Context, query string, qctx map[string]any) domain.RoutingResult {
	intent := rt.ClassifyIntent(query)
	rt.log.Info().
		Str("query", domain.TruncateQuery(query)).
		Str("intent", intent.Primary).
		Float64("confidence", intent.Confidence).
		Bool("multiAgent", intent.RequiresMultipleAgents).
		Msg("routing query")

	// Routing is itself agent-mediated; keep the policy gate's books
	// straight. The gate is advisory and this always passes.
	if rt.gate != nil {
		rt.gate.Validate("routing", domain.TruncateQuery(query), map[string]any{"agent_used": true})
	}

	competent := rt.FindCompetent(query, intent)
	if len(competent) == 0 {
		rt.log.Warn().Str("query", domain.TruncateQuery(query)).Msg("no competent agents")
		return domain.RoutingResult{
			Success:         false,
			Query:           query,
			Intent:          intent,
			Error:           registry.ErrNoCandidates.Error(),
			AvailableAgents: rt.reg.List(),
		}
	}

	for _, s := range competent {
		rt.log.Debug().
			Str("agent", s.Agent.Name()).
			Float64("score", s.Score).
			Msg("competent agent")
	}

	var result domain.RoutingResult
	if len(competent) == 1 {
		result = rt.routeSingle(ctx, competent[0], query, qctx)
	} else {
		result = rt.orchestrate(ctx, competent, query, qctx)
	}
	result.Query = query
	result.Intent = intent

	rt.record(query, intent, result)
	rt.report(result)
	return result
}

// routeSingle dispatches the query to the one competent agent.
func (rt *Router) routeSingle(ctx context.Context, s Scored, query string, qctx map[string]any) domain.RoutingResult {
	name := s.Agent.Name()
	rt.log.Info().Str("agent", name).Msg("single dispatch")

	res := rt.reg.Consult(ctx, name, query, qctx, registry.ConsultOptions{From: routerCaller})
	response := domain.AgentResponse{
		Agent:   name,
		Score:   s.Score,
		Success: res.Success,
		Payload: res.Payload,
		Error:   res.Error,
	}

	return domain.RoutingResult{
		Success:      res.Success,
		Type:         domain.RoutingSingle,
		AgentsUsed:   []string{name},
		PrimaryAgent: name,
		Responses:    []domain.AgentResponse{response},
		Combined:     Merge([]domain.AgentResponse{response}),
		Error:        res.Error,
	}
}

// orchestrate consults each competent agent in rank order. One agent's
// failure never aborts the rest; the routing fails only when every agent
// failed.
func (rt *Router) orchestrate(ctx context.Context, competent []Scored, query string, qctx map[string]any) domain.RoutingResult {
	rt.log.Info().Int("agents", len(competent)).Msg("orchestrating")

	agentsUsed := make([]string, 0, len(competent))
	responses := make([]domain.AgentResponse, 0, len(competent))
	anySuccess := false

	for _, s := range competent {
		name := s.Agent.Name()
		agentsUsed = append(agentsUsed, name)

		res := rt.reg.Consult(ctx, name, query, qctx, registry.ConsultOptions{From: routerCaller})
		if res.Success {
			anySuccess = true
		}
		responses = append(responses, domain.AgentResponse{
			Agent:   name,
			Score:   s.Score,
			Success: res.Success,
			Payload: res.Payload,
			Error:   res.Error,
		})
	}

	combined := Merge(responses)
	return domain.RoutingResult{
		Success:      anySuccess,
		Type:         domain.RoutingOrchestrated,
		AgentsUsed:   agentsUsed,
		PrimaryAgent: combined.PrimaryAgent,
		Responses:    responses,
		Combined:     combined,
	}
}

// record appends a bounded routing history entry.
func (rt *Router) record(query string, intent domain.Intent, result domain.RoutingResult) {
	rec := domain.RoutingRecord{
		Timestamp:  time.Now(),
		Query:      domain.TruncateQuery(query),
		Intent:     intent,
		AgentsUsed: result.AgentsUsed,
		Result:     result,
	}
	rt.mu.Lock()
	rt.history = append(rt.history, rec)
	if over := len(rt.history) - rt.historyLimit; over > 0 {
		rt.history = append([]domain.RoutingRecord(nil), rt.history[over:]...)
	}
	rt.mu.Unlock()
}

// report notifies the reporter about the routing decision, best-effort.
func (rt *Router) report(result domain.RoutingResult) {
	if rt.reporter == nil {
		return
	}
	for _, name := range result.AgentsUsed {
		rt.reporter.LogActivity(name, "routing",
			"routed query: "+domain.TruncateQuery(result.Query),
			map[string]any{
				"intent":  result.Intent.Primary,
				"success": result.Success,
				"type":    string(result.Type),
			})
	}
}

// History returns the most recent routing records, oldest first. A
// non-positive limit returns everything retained.
func (rt *Router) History(limit int) []domain.RoutingRecord {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	records := rt.history
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return append([]domain.RoutingRecord(nil), records...)
}
