// Package util holds small helpers shared by the CLI and TUI.
package util

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// ScoreCompletions returns the top n fuzzy matches for input. An empty input
// returns the candidates unchanged; n <= 0 means no limit.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}
	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// Suggest picks the closest candidate to a value that matched nothing. Exact
// case-insensitive hits win over fuzzy ones. It returns "" when nothing is
// close.
func Suggest(input string, candidates []string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	for _, c := range candidates {
		if strings.EqualFold(c, input) {
			return c
		}
	}
	if m := ScoreCompletions(strings.ToLower(input), lowered(candidates), 1); len(m) == 1 {
		for _, c := range candidates {
			if strings.ToLower(c) == m[0] {
				return c
			}
		}
	}
	return ""
}

func lowered(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
