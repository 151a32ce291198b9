package cli

import (
	"fmt"
	"time"

	"github.com/nikoq/switchboard/internal/agents"
	"github.com/nikoq/switchboard/internal/config"
	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/gateway"
	"github.com/nikoq/switchboard/internal/registry"
	"github.com/nikoq/switchboard/internal/reporting"
	"github.com/nikoq/switchboard/internal/router"
	"github.com/nikoq/switchboard/internal/rules"
	"github.com/nikoq/switchboard/internal/store"
)

// app holds the wired runtime: registry, router, policy gate and
// reporting sinks, built from one loaded config.
type app struct {
	cfg     config.Config
	reg     *registry.Registry
	rt      *router.Router
	gate    *rules.Gate
	clients *gateway.ClientRegistry
	reports *store.ReportingStore
	db      *store.DB
}

// buildApp loads and validates the config, then wires every component.
// withGateway additionally prepares the WebSocket client registry so
// consultation events reach connected listeners.
func buildApp(withGateway bool) (*app, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}

	if issues := config.Validate(&cfg); len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return nil, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}

	a := &app{cfg: cfg}

	sinks := []domain.Reporter{reporting.NewLogReporter(log)}

	if cfg.Reporting.Store == "sqlite" {
		if err := paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("creating data directories: %w", err)
		}
		dbPath := paths.ReportingDBPath(cfg.Reporting)
		a.db, err = store.Open(dbPath, log)
		if err != nil {
			return nil, fmt.Errorf("opening reporting database: %w", err)
		}
		a.reports = store.NewReportingStore(a.db)
		sinks = append(sinks, a.reports)
	}

	if withGateway {
		a.clients = gateway.NewClientRegistry(log.Sub("clients"))
		sinks = append(sinks, gateway.NewBroadcaster(a.clients))
	}

	reporter := reporting.NewMulti(sinks...)

	a.reg = registry.New(registry.Config{
		EnableCaching:  cfg.Registry.CachingEnabled(),
		DefaultTimeout: time.Duration(cfg.Registry.DefaultTimeoutSeconds) * time.Second,
		MaxRetries:     cfg.Registry.Retries(),
		CacheMaxSize:   cfg.Registry.CacheMaxSize,
		HistoryLimit:   cfg.Registry.HistoryLimit,
	}, reporter, log)

	builtins, err := agents.Builtins(cfg.Agents.Builtins, log)
	if err != nil {
		return nil, err
	}
	for _, agent := range builtins {
		a.reg.Register(agent)
	}

	a.gate = rules.NewGate(log)
	a.rt = router.New(router.Config{
		MaxAgents:     cfg.Router.MaxAgents,
		HistoryLimit:  cfg.Router.HistoryLimit,
		ExtraKeywords: cfg.Router.ExtraKeywords,
	}, a.reg, a.gate, reporter, log)

	log.Info().
		Int("agents", len(builtins)).
		Str("reporting", cfg.Reporting.Store).
		Msg("application wired")
	return a, nil
}

// Close releases resources held by the app.
func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
