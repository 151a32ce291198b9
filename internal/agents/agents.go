// Package agents provides the built-in routable agents: codebase
// knowledge, test planning, GitLab project sync and environment access.
// Each answers locally with a structured payload; heavy side effects are
// delegated to the tooling the payload describes.
package agents

import (
	"fmt"
	"strings"

	"github.com/nikoq/switchboard/internal/domain"
	"github.com/nikoq/switchboard/internal/logging"
)

// Builtin names accepted in configuration.
const (
	BuiltinKnowledge   = "knowledge"
	BuiltinTest        = "test"
	BuiltinGitLab      = "gitlab"
	BuiltinEnvironment = "environment"
)

// Builtins constructs the named built-in agents. Unknown names are an
// error so configuration typos surface at startup.
func Builtins(names []string, log *logging.Logger) ([]domain.Agent, error) {
	out := make([]domain.Agent, 0, len(names))
	for _, name := range names {
		switch name {
		case BuiltinKnowledge:
			out = append(out, NewKnowledge(log))
		case BuiltinTest:
			out = append(out, NewTest(log))
		case BuiltinGitLab:
			out = append(out, NewGitLab(log))
		case BuiltinEnvironment:
			out = append(out, NewEnvironment(log))
		default:
			return nil, fmt.Errorf("unknown builtin agent %q", name)
		}
	}
	return out, nil
}

// containsAny reports whether the lowercased query contains any keyword.
func containsAny(query string, keywords []string) bool {
	queryLower := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(queryLower, kw) {
			return true
		}
	}
	return false
}

func stringField(qctx map[string]any, key string) string {
	if qctx == nil {
		return ""
	}
	s, _ := qctx[key].(string)
	return s
}
