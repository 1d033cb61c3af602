package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/kennel/internal/config"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/internal/util"
	"github.com/mithrel/kennel/internal/wire"
	"github.com/mithrel/kennel/pkg/api"
)

// filterFlags are the per-invocation filters shared by list and browse.
type filterFlags struct {
	name      string
	breed     []string
	age       []string
	weight    []string
	gender    string
	available string
	favorite  string
	isNew     string
}

var flagKeys = []struct {
	flag string
	key  query.FilterKey
}{
	{"name", query.FilterName},
	{"breed", query.FilterBreed},
	{"age", query.FilterAge},
	{"weight", query.FilterWeight},
	{"gender", query.FilterGender},
	{"available", query.FilterIsAvailable},
	{"favorite", query.FilterIsFavorite},
	{"new", query.FilterIsNew},
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "name contains (case-insensitive)")
	fl.StringSliceVar(&f.breed, "breed", nil, "breed is any of (comma-separated or repeated)")
	fl.StringSliceVar(&f.age, "age", nil, "age range is any of")
	fl.StringSliceVar(&f.weight, "weight", nil, "weight class is any of")
	fl.StringVar(&f.gender, "gender", "", "female|male (f|m)")
	fl.StringVar(&f.available, "available", "", "only dogs still listed (true|false)")
	fl.StringVar(&f.favorite, "favorite", "", "only favorites (true|false)")
	fl.StringVar(&f.isNew, "new", "", "only dogs not yet seen (true|false)")
	for _, name := range []string{"available", "favorite", "new"} {
		fl.Lookup(name).NoOptDefVal = "true"
		_ = cmd.RegisterFlagCompletionFunc(name, fixedCompletions("true", "false"))
	}
	_ = cmd.RegisterFlagCompletionFunc("gender", fixedCompletions("female", "male"))
	_ = cmd.RegisterFlagCompletionFunc("age", fixedCompletions(ageValues()...))
	_ = cmd.RegisterFlagCompletionFunc("weight", fixedCompletions(api.Weights...))
	_ = cmd.RegisterFlagCompletionFunc("breed", completeBreeds)
}

func (f *filterFlags) values(flag string) []string {
	switch flag {
	case "name":
		return []string{f.name}
	case "breed":
		return f.breed
	case "age":
		return f.age
	case "weight":
		return f.weight
	case "gender":
		return []string{f.gender}
	case "available":
		return []string{f.available}
	case "favorite":
		return []string{f.favorite}
	default:
		return []string{f.isNew}
	}
}

// spec builds a filter spec from the flags the user actually set.
func (f *filterFlags) spec(cmd *cobra.Command) (query.FilterSpec, error) {
	spec := query.FilterSpec{}
	for _, fk := range flagKeys {
		if !cmd.Flags().Changed(fk.flag) {
			continue
		}
		rule, err := query.ParseFilter(fk.key, f.values(fk.flag)...)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", fk.flag, err)
		}
		spec = spec.With(rule)
	}
	return spec, nil
}

// suggestValues prints a hint for every set value that no dog has.
func suggestValues(w io.Writer, spec query.FilterSpec, facets query.Facets) {
	known := map[query.FilterKey][]string{
		query.FilterBreed:  query.Values(facets.Breed),
		query.FilterAge:    query.Values(facets.Age),
		query.FilterWeight: query.Values(facets.Weight),
	}
	for _, key := range []query.FilterKey{query.FilterBreed, query.FilterAge, query.FilterWeight} {
		candidates := known[key]
		rule, ok := spec[key]
		if !ok {
			continue
		}
		for _, v := range rule.Values() {
			if slices.Contains(candidates, v) {
				continue
			}
			if s := util.Suggest(v, candidates); s != "" {
				_, _ = fmt.Fprintf(w, "no %s %q; did you mean %q?\n", key, v, s)
			} else {
				_, _ = fmt.Fprintf(w, "no %s %q in the catalog\n", key, v)
			}
		}
	}
}

func ageValues() []string {
	out := make([]string, len(api.Ages))
	for i, a := range api.Ages {
		out[i] = string(a)
	}
	return out
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completionApp builds and loads an app for shell completion, which runs
// without the root pre-run hook.
func completionApp(cmd *cobra.Command) (*wire.App, error) {
	v := viper.New()
	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, err
	}
	app, err := wire.BuildApp(cmd.Context(), v)
	if err != nil {
		return nil, err
	}
	if err := app.Load(cmd.Context()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// completeBreeds fuzzy-matches the last comma-separated item against the
// catalog's breeds.
func completeBreeds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, err := completionApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	prefix := toComplete[strings.LastIndex(toComplete, ",")+1:]
	done := toComplete[:len(toComplete)-len(prefix)]
	var out []string
	for _, b := range util.ScoreCompletions(prefix, query.Values(app.Catalog.Facets().Breed), 20) {
		out = append(out, done+b)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
