package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/logging"
	"github.com/nikoq/switchboard/internal/registry"
	"github.com/nikoq/switchboard/internal/rules"
)

// stubAgent is a test double for domain.Agent.
type stubAgent struct {
	name         string
	capabilities []string
	handles      func(query string) bool
	consult      func(ctx context.Context, query string, qctx map[string]any) (map[string]any, error)
}

func (s *stubAgent) Name() string           { return s.name }
func (s *stubAgent) Capabilities() []string { return s.capabilities }
func (s *stubAgent) CanHandle(query string) bool {
	if s.handles == nil {
		return true
	}
	return s.handles(query)
}
func (s *stubAgent) Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error) {
	if s.consult == nil {
		return map[string]any{"from": s.name}, nil
	}
	return s.consult(ctx, query, qctx)
}

func newTestRouter(agents ...domain.Agent) (*Router, *registry.Registry) {
	reg := registry.New(registry.DefaultConfig(), nil, logging.Nop())
	for _, a := range agents {
		reg.Register(a)
	}
	rt := New(Config{}, reg, rules.NewGate(logging.Nop()), nil, logging.Nop())
	return rt, reg
}

func TestClassifyIntent_SingleCategory(t *testing.T) {
	rt, _ := newTestRouter()
	intent := rt.ClassifyIntent("explain the documentation for the billing model")

	assert.Equal(t, "knowledge", intent.Primary)
	assert.False(t, intent.RequiresMultipleAgents)
	assert.Equal(t, 1.0, intent.Confidence)
	assert.Positive(t, intent.Scores["knowledge"])
	assert.Zero(t, intent.Scores["test"])
}

func TestClassifyIntent_MultipleCategories(t *testing.T) {
	rt, _ := newTestRouter()
	intent := rt.ClassifyIntent("run the api test and explain the architecture")

	assert.True(t, intent.RequiresMultipleAgents)
	assert.Positive(t, intent.Scores["test"])
	assert.Positive(t, intent.Scores["knowledge"])
	assert.Less(t, intent.Confidence, 1.0)
	assert.Positive(t, intent.Confidence)
}

func TestClassifyIntent_NoMatch(t *testing.T) {
	rt, _ := newTestRouter()
	intent := rt.ClassifyIntent("zzz qqq")

	assert.Zero(t, intent.Confidence)
	assert.False(t, intent.RequiresMultipleAgents)
	// Ties (all zero) resolve to the first category in table order.
	assert.Equal(t, "test", intent.Primary)
}

func TestClassifyIntent_TieBrokenByTableOrder(t *testing.T) {
	rt, _ := newTestRouter()
	// One hit each for test ("validate") and gitlab ("clone").
	intent := rt.ClassifyIntent("validate the clone")

	assert.Equal(t, 1, intent.Scores["test"])
	assert.Equal(t, 1, intent.Scores["gitlab"])
	assert.Equal(t, "test", intent.Primary)
	assert.True(t, intent.RequiresMultipleAgents)
}

func TestClassifyIntent_ExtraKeywords(t *testing.T) {
	reg := registry.New(registry.DefaultConfig(), nil, logging.Nop())
	rt := New(Config{
		ExtraKeywords: map[string][]string{"gitlab": {"mirror"}},
	}, reg, nil, nil, logging.Nop())

	intent := rt.ClassifyIntent("mirror the repo")
	assert.Equal(t, "gitlab", intent.Primary)
}

func TestFindCompetent_NameCategoryBonus(t *testing.T) {
	tester := &stubAgent{name: "TestAgent", capabilities: []string{"API testing"}}
	expert := &stubAgent{name: "KnowledgeAgent", capabilities: []string{"codebase Q&A"}}
	rt, _ := newTestRouter(expert, tester)

	intent := rt.ClassifyIntent("run the integration test suite")
	require.Equal(t, "test", intent.Primary)

	scored := rt.FindCompetent("run the integration test suite", intent)
	require.Len(t, scored, 2)
	assert.Equal(t, "TestAgent", scored[0].Agent.Name())
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestFindCompetent_CapsAtMaxAgents(t *testing.T) {
	agents := []domain.Agent{
		&stubAgent{name: "one"},
		&stubAgent{name: "two"},
		&stubAgent{name: "three"},
		&stubAgent{name: "four"},
	}
	rt, _ := newTestRouter(agents...)

	scored := rt.FindCompetent("anything", domain.Intent{})
	assert.Len(t, scored, 3)
}

func TestFindCompetent_SingleQualifierNotCapped(t *testing.T) {
	rt, _ := newTestRouter(&stubAgent{name: "only"})
	scored := rt.FindCompetent("anything", domain.Intent{})
	assert.Len(t, scored, 1)
}

func TestFindCompetent_ExcludesUnwilling(t *testing.T) {
	rt, _ := newTestRouter(
		&stubAgent{name: "yes"},
		&stubAgent{name: "no", handles: func(string) bool { return false }},
	)
	scored := rt.FindCompetent("anything", domain.Intent{})
	require.Len(t, scored, 1)
	assert.Equal(t, "yes", scored[0].Agent.Name())
}

func TestRoute_NoCandidates(t *testing.T) {
	rt, _ := newTestRouter(&stubAgent{name: "picky", handles: func(string) bool { return false }})

	res := rt.Route(context.Background(), "anything", nil)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"picky"}, res.AvailableAgents)
	assert.NotEmpty(t, res.Error)
	// Early failures are not recorded in routing history.
	assert.Empty(t, rt.History(0))
}

func TestRoute_SingleDispatch(t *testing.T) {
	rt, _ := newTestRouter(&stubAgent{
		name: "TestAgent",
		consult: func(context.Context, string, map[string]any) (map[string]any, error) {
			return map[string]any{"passed": true}, nil
		},
	})

	res := rt.Route(context.Background(), "run the suite", nil)
	assert.True(t, res.Success)
	assert.Equal(t, domain.RoutingSingle, res.Type)
	assert.Equal(t, []string{"TestAgent"}, res.AgentsUsed)
	assert.Equal(t, "TestAgent", res.PrimaryAgent)
	assert.False(t, res.Combined.Combined)
	assert.Equal(t, map[string]any{"passed": true}, res.Combined.Primary)

	history := rt.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, []string{"TestAgent"}, history[0].AgentsUsed)
}

func TestRoute_OrchestratesMultipleAgents(t *testing.T) {
	// Scenario: both agents qualify for a mixed query.
	rt, _ := newTestRouter(
		&stubAgent{name: "TestAgent", capabilities: []string{"API testing"}},
		&stubAgent{name: "KnowledgeAgent", capabilities: []string{"documentation Q&A"}},
	)

	res := rt.Route(context.Background(), "test and document the endpoint", nil)
	assert.True(t, res.Success)
	assert.Equal(t, domain.RoutingOrchestrated, res.Type)
	assert.Len(t, res.AgentsUsed, 2)
	assert.True(t, res.Combined.Combined)
	assert.Len(t, res.Combined.Supplementary, 1)
}

func TestRoute_PartialSuccess(t *testing.T) {
	// Three competent agents, exactly one succeeds.
	fail := func(context.Context, string, map[string]any) (map[string]any, error) {
		return nil, errors.New("down")
	}
	ok := func(context.Context, string, map[string]any) (map[string]any, error) {
		return map[string]any{"answer": "only me"}, nil
	}
	reg := registry.New(registry.Config{
		EnableCaching:  true,
		DefaultTimeout: registry.DefaultConfig().DefaultTimeout,
		MaxRetries:     0,
		CacheMaxSize:   100,
	}, nil, logging.Nop())
	reg.Register(&stubAgent{name: "a", consult: fail})
	reg.Register(&stubAgent{name: "b", consult: ok})
	reg.Register(&stubAgent{name: "c", consult: fail})
	rt := New(Config{}, reg, nil, nil, logging.Nop())

	res := rt.Route(context.Background(), "anything", nil)
	assert.True(t, res.Success)
	assert.Equal(t, domain.RoutingOrchestrated, res.Type)
	assert.Len(t, res.AgentsUsed, 3)
	assert.False(t, res.Combined.Combined)
	assert.Equal(t, map[string]any{"answer": "only me"}, res.Combined.Primary)
	assert.Equal(t, "b", res.Combined.PrimaryAgent)
}

func TestRoute_TotalFailure(t *testing.T) {
	fail := func(context.Context, string, map[string]any) (map[string]any, error) {
		return nil, errors.New("down")
	}
	reg := registry.New(registry.Config{
		EnableCaching:  false,
		DefaultTimeout: registry.DefaultConfig().DefaultTimeout,
		MaxRetries:     0,
		CacheMaxSize:   100,
	}, nil, logging.Nop())
	reg.Register(&stubAgent{name: "a", consult: fail})
	reg.Register(&stubAgent{name: "b", consult: fail})
	rt := New(Config{}, reg, nil, nil, logging.Nop())

	res := rt.Route(context.Background(), "anything", nil)
	assert.False(t, res.Success)
	assert.False(t, res.Combined.Combined)
	assert.Len(t, res.Combined.Errors, 2)
}

func TestRoute_HistoryBounded(t *testing.T) {
	reg := registry.New(registry.DefaultConfig(), nil, logging.Nop())
	reg.Register(&stubAgent{name: "a"})
	rt := New(Config{HistoryLimit: 2}, reg, nil, nil, logging.Nop())

	ctx := context.Background()
	rt.Route(ctx, "one", nil)
	rt.Route(ctx, "two", nil)
	rt.Route(ctx, "three", nil)

	history := rt.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].Query)
	assert.Equal(t, "three", history[1].Query)
}
