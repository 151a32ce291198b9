package agents

import (
	"context"
	"strings"

	"github.com/nikoq/switchboard/internal/logging"
)

var gitlabKeywords = []string{
	"gitlab", "update", "sync", "pull", "clone", "fetch",
	"gitlab update", "update project", "sync project", "force update",
	"gitlab sync", "update from gitlab",
}

// GitLab handles project update and sync requests. It resolves the
// requested action and target and reports them; the actual fetch is the
// caller's to run.
type GitLab struct {
	log *logging.Logger
}

func NewGitLab(log *logging.Logger) *GitLab {
	return &GitLab{log: log.Sub("agent.gitlab")}
}

func (g *GitLab) Name() string { return "GitLabAgent" }

func (g *GitLab) Capabilities() []string {
	return []string{
		"update_project_from_gitlab",
		"force_update_project",
		"clone_project_from_gitlab",
		"sync_project_with_gitlab",
		"validate_gitlab_access",
		"check_project_status",
	}
}

func (g *GitLab) CanHandle(query string) bool {
	return containsAny(query, gitlabKeywords)
}

func (g *GitLab) Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	branch := stringField(qctx, "branch")
	if branch == "" {
		branch = "main"
	}
	action := detectGitLabAction(query)
	g.log.Debug().Str("query", query).Str("action", action).Str("branch", branch).Msg("resolving")

	return map[string]any{
		"agent":        g.Name(),
		"query":        query,
		"action":       action,
		"project_path": stringField(qctx, "project_path"),
		"branch":       branch,
		"force":        strings.Contains(strings.ToLower(query), "force"),
	}, nil
}

func detectGitLabAction(query string) string {
	queryLower := strings.ToLower(query)
	switch {
	case strings.Contains(queryLower, "clone"):
		return "clone"
	case strings.Contains(queryLower, "status"):
		return "status"
	case strings.Contains(queryLower, "sync"):
		return "sync"
	default:
		return "update"
	}
}
