package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikoq/switchboard/internal/logging"
)

var environmentKeywords = []string{
	"dev", "dev-2", "dev2", "environment", "access environment",
	"login", "portal", "navigate", "open dev", "go to dev",
	"switch to dev", "connect to dev", "browser",
}

// Environment handles requests to open or log into a named environment.
// A query that names no known environment is a consultation failure.
type Environment struct {
	log *logging.Logger
}

func NewEnvironment(log *logging.Logger) *Environment {
	return &Environment{log: log.Sub("agent.environment")}
}

func (e *Environment) Name() string { return "EnvironmentAgent" }

func (e *Environment) Capabilities() []string {
	return []string{
		"DEV environment access",
		"DEV-2 environment access",
		"Environment navigation",
		"Portal login",
		"Environment selection",
	}
}

func (e *Environment) CanHandle(query string) bool {
	return containsAny(query, environmentKeywords)
}

func (e *Environment) Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := stringField(qctx, "environment")
	if env == "" {
		env = detectEnvironment(query)
	}
	if env == "" {
		return nil, fmt.Errorf("no known environment named in query %q", query)
	}
	e.log.Debug().Str("query", query).Str("environment", env).Msg("selecting")

	return map[string]any{
		"agent":       e.Name(),
		"query":       query,
		"environment": env,
		"steps":       []string{"open portal", "log in", "select " + env},
	}, nil
}

// detectEnvironment maps query phrasing to an environment name. The
// dashed and undashed dev-2 spellings are both accepted; dev-2 has to be
// checked first because "dev" is its prefix.
func detectEnvironment(query string) string {
	queryLower := strings.ToLower(query)
	switch {
	case strings.Contains(queryLower, "dev-2") || strings.Contains(queryLower, "dev2"):
		return "dev-2"
	case strings.Contains(queryLower, "dev"):
		return "dev"
	default:
		return ""
	}
}
