package router

import (
	"sort"

	"github.com/nikoq/switchboard/internal/domain"
)

// Merge combines the per-agent responses of an orchestration. With fewer
// than two successes nothing is combined: the single success (if any)
// surfaces as the primary result directly. With two or more, the highest
// competence score wins the primary slot and the rest ride along as
// supplementary responses. Payloads stay opaque.
func Merge(responses []domain.AgentResponse) domain.CombinedResult {
	var successes []domain.AgentResponse
	var errs []string
	for _, r := range responses {
		if r.Success {
			successes = append(successes, r)
		} else if r.Error != "" {
			errs = append(errs, r.Error)
		}
	}

	switch len(successes) {
	case 0:
		return domain.CombinedResult{
			Combined: false,
			Errors:   errs,
		}
	case 1:
		return domain.CombinedResult{
			Combined:     false,
			Primary:      successes[0].Payload,
			PrimaryAgent: successes[0].Agent,
		}
	}

	sorted := append([]domain.AgentResponse(nil), successes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	return domain.CombinedResult{
		Combined:      true,
		Primary:       sorted[0].Payload,
		PrimaryAgent:  sorted[0].Agent,
		Supplementary: sorted[1:],
	}
}
