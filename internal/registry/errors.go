package registry

import "errors"

var (
	// ErrAgentNotFound means the requested agent name is unknown.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrNoCandidates means no registered agent can handle the query.
	ErrNoCandidates = errors.New("no agents can handle this query")

	// ErrConsultTimeout means a consultation attempt exceeded its deadline.
	ErrConsultTimeout = errors.New("consultation timed out")
)
