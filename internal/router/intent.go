package router

import (
	"strings"

	"github.com/nikoq/switchboard/internal/domain"
)

// intentCategory groups the keywords that signal one kind of request and
// the name fragments that associate an agent with it. Table order is the
// tie-break for classification, so it is a slice, not a map.
type intentCategory struct {
	name      string
	keywords  []string
	nameHints []string
}

// defaultIntentTable covers the request kinds switchboard routes. The
// gitlab category carries an explicit keyword set so source-control
// requests score like every other category.
func defaultIntentTable() []intentCategory {
	return []intentCategory{
		{
			name: "test",
			keywords: []string{
				"test", "testing", "api test", "ui test", "integration test",
				"e2e test", "automation", "test case", "test suite", "run test",
				"execute test", "test endpoint", "test api", "validate",
			},
			nameHints: []string{"test"},
		},
		{
			name: "knowledge",
			keywords: []string{
				"question", "how", "what", "why", "explain", "documentation",
				"docs", "code", "endpoint", "api", "controller", "model",
				"validation", "permission", "business logic", "architecture",
				"knowledge",
			},
			nameHints: []string{"knowledge", "expert"},
		},
		{
			name: "collection",
			keywords: []string{
				"postman", "collection", "export", "import",
				"generate collection", "postman collection", "api collection",
			},
			nameHints: []string{"postman", "collection"},
		},
		{
			name: "gitlab",
			keywords: []string{
				"gitlab", "sync", "pull", "clone", "fetch", "gitlab update",
				"update project", "sync project", "force update", "gitlab sync",
				"update from gitlab",
			},
			nameHints: []string{"gitlab"},
		},
		{
			name: "environment",
			keywords: []string{
				"environment", "login", "portal", "navigate", "browser",
				"open dev", "go to dev", "switch to dev", "access environment",
				"connect to dev",
			},
			nameHints: []string{"environment"},
		},
	}
}

// mergeKeywords folds operator-supplied keywords into the table. Unknown
// category names are ignored.
func mergeKeywords(table []intentCategory, extra map[string][]string) []intentCategory {
	if len(extra) == 0 {
		return table
	}
	for i := range table {
		if kws, ok := extra[table[i].name]; ok {
			table[i].keywords = append(table[i].keywords, kws...)
		}
	}
	return table
}

// ClassifyIntent counts keyword hits per category and derives the primary
// intent. Ties go to the earlier category in table order. Confidence is
// the winning count over all hits, zero when nothing matched.
func (rt *Router) ClassifyIntent(query string) domain.Intent {
	queryLower := strings.ToLower(query)

	scores := make(map[string]int, len(rt.intents))
	primary := ""
	maxCount := -1
	total := 0
	nonzero := 0

	for _, cat := range rt.intents {
		count := 0
		for _, kw := range cat.keywords {
			if strings.Contains(queryLower, kw) {
				count++
			}
		}
		scores[cat.name] = count
		total += count
		if count > 0 {
			nonzero++
		}
		if count > maxCount {
			maxCount = count
			primary = cat.name
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(maxCount) / float64(total)
	}

	return domain.Intent{
		Primary:                primary,
		Scores:                 scores,
		Confidence:             confidence,
		RequiresMultipleAgents: maxCount > 0 && nonzero > 1,
	}
}

// matchesCategory reports whether an agent name belongs to the named
// intent category via the fixed name association table.
func (rt *Router) matchesCategory(agentName, category string) bool {
	nameLower := strings.ToLower(agentName)
	for _, cat := range rt.intents {
		if cat.name != category {
			continue
		}
		for _, hint := range cat.nameHints {
			if strings.Contains(nameLower, hint) {
				return true
			}
		}
	}
	return false
}
