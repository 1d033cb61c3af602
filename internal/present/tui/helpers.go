package tui

import (
	"strings"

	"github.com/mithrel/kennel/internal/query"
)

// filterSummary renders active rules as "key=a,b key=c" for the footer.
func filterSummary(spec query.FilterSpec) string {
	rules := spec.Rules()
	if len(rules) == 0 {
		return ""
	}
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
