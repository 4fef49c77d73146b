package enrich

import (
	"fmt"

	"docpulse/internal/group"
)

// HeuristicVerdict builds a summary without a provider: a template from
// the category and the aggregate line counts. Used when no provider is
// configured or the provider call failed.
func HeuristicVerdict(s *group.Session, category string) Verdict {
	adds, dels := s.Additions(), s.Deletions()

	var summary string
	switch {
	case adds > 0 && dels == 0:
		summary = fmt.Sprintf("%s content expanded (+%d lines)", category, adds)
	case adds == 0 && dels > 0:
		summary = fmt.Sprintf("%s content trimmed (-%d lines)", category, dels)
	default:
		summary = fmt.Sprintf("%s content revised (+%d/-%d lines)", category, adds, dels)
	}
	if n := len(s.Events); n > 1 {
		summary = fmt.Sprintf("%s across %d changes", summary, n)
	}

	return Verdict{
		Decision: Keep,
		Category: category,
		Summary:  summary,
		Impact:   fmt.Sprintf("Readers of %s documentation may want to revisit this page.", category),
		Score:    1.0,
	}
}
