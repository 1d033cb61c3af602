package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/query"
)

// DefaultColumns is the plain list layout when none is configured.
var DefaultColumns = []string{"id", "name", "breed", "age", "gender", "weight", "intake", "flags"}

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// Flags summarizes the user-visible state of a dog, e.g. "fav,new".
func Flags(d dogs.Dog) string {
	var out []string
	if d.IsFavorite {
		out = append(out, "fav")
	}
	if d.IsNew {
		out = append(out, "new")
	}
	if !d.IsAvailable {
		out = append(out, "gone")
	}
	return strings.Join(out, ",")
}

// Intake renders the intake date as M/D/YY plus a relative age.
func Intake(d dogs.Dog, now time.Time) string {
	if d.IntakeDate.IsZero() {
		return ""
	}
	date := d.IntakeMonth() + "/" + d.IntakeDay() + "/" + d.IntakeYear()
	return date + " (" + humanize.RelTime(d.IntakeDate, now, "ago", "from now") + ")"
}

func column(d dogs.Dog, name string, now time.Time) string {
	switch name {
	case "id":
		return d.ID
	case "name":
		return d.Name
	case "breed":
		return d.Breed()
	case "age":
		return string(d.Age)
	case "gender":
		return string(d.Gender)
	case "weight":
		return d.Weight
	case "intake":
		return Intake(d, now)
	case "flags":
		return Flags(d)
	}
	return ""
}

// WritePlainDogs writes an aligned table with the given columns.
func WritePlainDogs(w io.Writer, list []dogs.Dog, columns []string, headers bool, now time.Time) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, strings.Join(columns, "\t")+"\n")
	}
	fields := make([]string, len(columns))
	for _, d := range list {
		for i, c := range columns {
			fields[i] = esc(column(d, c, now))
		}
		_, _ = io.WriteString(tw, strings.Join(fields, "\t")+"\n")
	}
	return tw.Flush()
}

// WritePlainDog writes one dog as key: value lines.
func WritePlainDog(w io.Writer, d dogs.Dog, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, c := range DefaultColumns {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", c, esc(column(d, c, now)))
	}
	_, _ = fmt.Fprintf(tw, "photo:\t%s\n", esc(d.Photo))
	_, _ = fmt.Fprintf(tw, "page:\t%s\n", DogPageURL(d.ID))
	return tw.Flush()
}

// WritePlainFacets lists every facet value with its count.
func WritePlainFacets(w io.Writer, f query.Facets, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, "facet\tvalue\tcount\n")
	}
	for _, g := range []struct {
		name   string
		values []query.FacetValue
	}{
		{"age", f.Age}, {"breed", f.Breed}, {"gender", f.Gender}, {"weight", f.Weight},
	} {
		for _, v := range g.values {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", g.name, esc(v.Value), v.Count)
		}
	}
	for _, g := range []struct {
		name    string
		options []query.FlagOption
	}{
		{"isAvailable", f.IsAvailable}, {"isNew", f.IsNew}, {"isFavorite", f.IsFavorite},
	} {
		for _, o := range g.options {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", g.name, o.Label, o.Count)
		}
	}
	return tw.Flush()
}
