package present

import (
	"fmt"

	"github.com/mithrel/kennel/internal/catalog"
)

// StatsLine is the one-line catalog header shared by the CLI and TUI.
func StatsLine(s catalog.Stats) string {
	line := fmt.Sprintf("Showing %d of %d dogs • %d new • %d favorite • %d no longer listed",
		s.Showing, s.Total, s.New, s.Favorites, s.Unavailable)
	if s.AppliedFilters > 0 {
		line += fmt.Sprintf(" • %d filter", s.AppliedFilters)
		if s.AppliedFilters > 1 {
			line += "s"
		}
	}
	return line
}
