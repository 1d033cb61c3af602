package present

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/present/format"
	"github.com/mithrel/kennel/internal/query"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

// ErrTUIUnsupported is returned for views that have no interactive form.
var ErrTUIUnsupported = errors.New("tui output not supported for this view")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Columns    []string
	// Now anchors relative dates; zero means time.Now.
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderDogs renders a list of dogs. TUI mode is driven by the caller
// through the tui package since it needs the live catalog.
func RenderDogs(_ context.Context, w io.Writer, list []dogs.Dog, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		if list == nil {
			list = []dogs.Dog{}
		}
		return format.WriteJSON(w, list, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONDogs(w, list)
	case ModePretty:
		return format.WritePrettyDogs(w, list, opts.now())
	case ModeTUI:
		return ErrTUIUnsupported
	default:
		return format.WritePlainDogs(w, list, opts.Columns, opts.Headers, opts.now())
	}
}

// RenderDog renders a single dog.
func RenderDog(_ context.Context, w io.Writer, d dogs.Dog, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, d, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModePretty:
		return format.WritePrettyDog(w, d, opts.now())
	case ModeTUI:
		return ErrTUIUnsupported
	default:
		return format.WritePlainDog(w, d, opts.now())
	}
}

// RenderFacets renders the facet summary.
func RenderFacets(w io.Writer, f query.Facets, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, f, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModeTUI:
		return ErrTUIUnsupported
	default:
		return format.WritePlainFacets(w, f, opts.Headers)
	}
}

// RenderStats renders the catalog summary line.
func RenderStats(w io.Writer, s catalog.Stats, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, s, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModeTUI:
		return ErrTUIUnsupported
	default:
		_, err := io.WriteString(w, StatsLine(s)+"\n")
		return err
	}
}
