package agents

import (
	"context"
	"regexp"
	"strings"

	"github.com/nikoq/switchboard/internal/logging"
)

var endpointPattern = regexp.MustCompile(`/[a-zA-Z0-9/_-]+`)

var knowledgeKeywords = []string{
	"question", "how", "what", "why", "explain", "documentation", "docs",
	"endpoint", "api", "controller", "domain", "model", "architecture",
	"codebase", "service", "repository", "business logic", "knowledge",
}

// Knowledge answers questions about the codebase: endpoints, controllers,
// domains, architecture. It assembles what it can resolve from the query
// and context into one payload.
type Knowledge struct {
	log *logging.Logger
}

func NewKnowledge(log *logging.Logger) *Knowledge {
	return &Knowledge{log: log.Sub("agent.knowledge")}
}

func (k *Knowledge) Name() string { return "KnowledgeAgent" }

func (k *Knowledge) Capabilities() []string {
	return []string{
		"Codebase Q&A",
		"Codebase exploration",
		"Architecture information",
		"Endpoint information",
		"Domain information",
		"Controller information",
		"Documentation lookup",
	}
}

func (k *Knowledge) CanHandle(query string) bool {
	return containsAny(query, knowledgeKeywords)
}

func (k *Knowledge) Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	information := map[string]any{}
	sources := map[string]any{}

	endpoint := stringField(qctx, "endpoint_path")
	if endpoint == "" {
		// Fall back to the first path-looking token in the query.
		endpoint = endpointPattern.FindString(query)
	}
	if endpoint != "" {
		information["endpoint"] = map[string]any{
			"path":   endpoint,
			"method": stringField(qctx, "method"),
		}
		sources["endpoint"] = true
	}

	if domainName := stringField(qctx, "domain"); domainName != "" {
		information["domain"] = domainName
		sources["domain"] = true
	}
	if controller := stringField(qctx, "controller"); controller != "" {
		information["controller"] = controller
		sources["controller"] = true
	}

	topics := matchedTopics(query)
	k.log.Debug().Str("query", query).Strs("topics", topics).Msg("answering")

	return map[string]any{
		"agent":       k.Name(),
		"query":       query,
		"topics":      topics,
		"information": information,
		"sources":     sources,
	}, nil
}

// matchedTopics lists the knowledge keywords present in the query, used
// as a cheap summary of what the question is about.
func matchedTopics(query string) []string {
	queryLower := strings.ToLower(query)
	var topics []string
	for _, kw := range knowledgeKeywords {
		if strings.Contains(queryLower, kw) {
			topics = append(topics, kw)
		}
	}
	return topics
}
