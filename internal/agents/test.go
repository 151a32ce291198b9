package agents

import (
	"context"
	"strings"

	"github.com/nikoq/switchboard/internal/logging"
)

var testKeywords = []string{
	"test", "testing", "api test", "ui test", "integration test",
	"e2e test", "end-to-end test", "automation", "test case", "test suite",
	"run test", "execute test", "test endpoint", "test api", "validate",
	"verification", "qa", "quality assurance",
}

// Test plans and describes test runs. The detected test type comes from
// the context when the caller provides one, otherwise from the query.
type Test struct {
	log *logging.Logger
}

func NewTest(log *logging.Logger) *Test {
	return &Test{log: log.Sub("agent.test")}
}

func (t *Test) Name() string { return "TestAgent" }

func (t *Test) Capabilities() []string {
	return []string{
		"API testing",
		"UI testing",
		"Integration testing",
		"E2E testing",
		"Test automation",
		"Test execution",
		"Test case generation",
		"Postman collection generation",
	}
}

func (t *Test) CanHandle(query string) bool {
	return containsAny(query, testKeywords)
}

func (t *Test) Consult(ctx context.Context, query string, qctx map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	testType := strings.ToLower(stringField(qctx, "test_type"))
	if testType == "" {
		testType = detectTestType(query)
	}
	t.log.Debug().Str("query", query).Str("testType", testType).Msg("planning")

	return map[string]any{
		"agent":     t.Name(),
		"query":     query,
		"test_type": testType,
		"plan":      planFor(testType),
	}, nil
}

func detectTestType(query string) string {
	queryLower := strings.ToLower(query)
	switch {
	case strings.Contains(queryLower, "e2e") || strings.Contains(queryLower, "end-to-end"):
		return "e2e"
	case strings.Contains(queryLower, "integration"):
		return "integration"
	case strings.Contains(queryLower, "ui"):
		return "ui"
	case strings.Contains(queryLower, "api"):
		return "api"
	default:
		return "custom"
	}
}

func planFor(testType string) []string {
	switch testType {
	case "api":
		return []string{"resolve endpoint", "build request set", "execute requests", "assert responses"}
	case "ui":
		return []string{"open target page", "drive interactions", "assert page state"}
	case "integration":
		return []string{"prepare fixtures", "exercise component boundaries", "verify side effects"}
	case "e2e":
		return []string{"provision environment", "run user journey", "verify end state"}
	default:
		return []string{"analyze request", "derive test cases", "execute"}
	}
}
