package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/kennel/internal/present"
	"github.com/mithrel/kennel/internal/present/tui"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/internal/wire"
)

var outputModes = []string{"plain", "pretty", "json", "ndjson", "tui"}

type listOpts struct {
	filters   filterFlags
	sort      string
	output    string
	noHeaders bool
	columns   []string
	indent    bool
}

func newListCmd() *cobra.Command {
	var o listOpts
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dogs",
		Long: `List dogs, available first. Filters apply to this invocation only.
Without --sort the saved sort preference is used (see "sort list").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &o, "")
		},
	}
	addFilterFlags(cmd, &o.filters)
	cmd.Flags().StringVar(&o.sort, "sort", "", `ad hoc sort, e.g. "age:desc,name"`)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output mode: plain|pretty|json|ndjson|tui (default from export.output)")
	cmd.Flags().BoolVar(&o.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	cmd.Flags().StringSliceVar(&o.columns, "columns", nil, "plain columns (default from list.columns)")
	cmd.Flags().BoolVar(&o.indent, "indent", false, "indent json output")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions(outputModes...))
	_ = cmd.RegisterFlagCompletionFunc("sort", completeSortSpec)
	return cmd
}

func newBrowseCmd() *cobra.Command {
	var o listOpts
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse dogs interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &o, "tui")
		},
	}
	addFilterFlags(cmd, &o.filters)
	cmd.Flags().BoolVar(&o.noHeaders, "noheaders", false, "hide column headers")
	return cmd
}

func runList(cmd *cobra.Command, o *listOpts, forced string) error {
	app, err := loadedApp(cmd)
	if err != nil {
		return err
	}
	spec, err := o.filters.spec(cmd)
	if err != nil {
		return err
	}
	output := forced
	if output == "" {
		output = o.output
	}
	if output == "" {
		output = app.Cfg.Output
	}
	mode, ok := present.ParseMode(strings.ToLower(output))
	if !ok {
		return fmt.Errorf("invalid --output: %s", output)
	}

	if mode == present.ModeTUI {
		if o.sort != "" {
			return fmt.Errorf("--sort cannot be used with tui; save a preference with \"sort add\"")
		}
		app.Catalog.ApplyFilters(spec)
		return tui.Browse(cmd.Context(), app.Catalog, tui.Options{Headers: !o.noHeaders, Out: cmd.OutOrStdout()})
	}

	var sorting query.SortSpec
	if o.sort != "" {
		if sorting, err = query.ParseSortSpec(o.sort); err != nil {
			return err
		}
	}
	list := app.Catalog.Query(spec, sorting)
	if len(list) == 0 {
		suggestValues(cmd.ErrOrStderr(), spec, app.Catalog.Facets())
	}
	opts := renderOptions(app, mode, !o.noHeaders)
	opts.JSONIndent = o.indent
	if len(o.columns) > 0 {
		opts.Columns = o.columns
	}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
		return present.RenderDogs(cmd.Context(), w, list, opts)
	})
}

func renderOptions(app *wire.App, mode present.Mode, headers bool) present.Options {
	return present.Options{
		Mode:    mode,
		Headers: headers,
		Columns: app.Cfg.Columns,
	}
}

func completeSortSpec(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := toComplete[:strings.LastIndex(toComplete, ",")+1]
	var out []string
	for _, k := range query.SortKeys {
		if strings.Contains(done, string(k)+":") || strings.Contains(","+done, ","+string(k)+",") {
			continue
		}
		out = append(out, done+string(k)+":asc", done+string(k)+":desc")
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
