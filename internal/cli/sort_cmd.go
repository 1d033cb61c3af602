package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/internal/wire"
)

func newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Manage the saved sort preference",
		Long: `Manage the saved sort preference. Keys apply in order; dogs still listed
always come first.`,
	}
	cmd.AddCommand(newSortListCmd())
	cmd.AddCommand(newSortAddCmd())
	cmd.AddCommand(newSortRemoveCmd())
	cmd.AddCommand(newSortUpdateCmd())
	cmd.AddCommand(newSortResetCmd())
	return cmd
}

func newSortListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the sort keys in precedence order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSorting(cmd, getApp(cmd))
		},
	}
}

func newSortAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "add <key> [asc|desc]",
		Short:             "Append a sort key",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeSortArgs(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := query.ParseSortRule(args[0], argAt(args, 1))
			if err != nil {
				return err
			}
			app := getApp(cmd)
			if err := app.Catalog.AddSortKey(cmd.Context(), rule.Key, rule.Direction); err != nil {
				return err
			}
			return printSorting(cmd, app)
		},
	}
}

func newSortRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <key>",
		Short:             "Drop a sort key",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSortArgs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Catalog.RemoveSortKey(cmd.Context(), query.SortKey(args[0])); err != nil {
				return err
			}
			return printSorting(cmd, app)
		},
	}
}

func newSortUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <key> <new-key> [asc|desc]",
		Short: "Replace a sort key in place",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := query.ParseSortRule(args[1], argAt(args, 2))
			if err != nil {
				return err
			}
			app := getApp(cmd)
			if err := app.Catalog.UpdateSortKey(cmd.Context(), query.SortKey(args[0]), rule.Key, rule.Direction); err != nil {
				return err
			}
			return printSorting(cmd, app)
		},
	}
}

func newSortResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default sort preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Catalog.ResetSorting(cmd.Context()); err != nil {
				return err
			}
			return printSorting(cmd, app)
		},
	}
}

// printSorting lists the preference and the keys still free to add. It
// needs the stored preference only, so the listing is not fetched.
func printSorting(cmd *cobra.Command, app *wire.App) error {
	app.Catalog.LoadSorting(cmd.Context())
	sorting := app.Catalog.Sorting()
	w := cmd.OutOrStdout()
	for i, r := range sorting {
		_, _ = fmt.Fprintf(w, "%d. %s %s\n", i+1, r.Key, r.Direction)
	}
	if unused := sorting.Unused(); len(unused) > 0 {
		names := make([]string, len(unused))
		for i, k := range unused {
			names[i] = string(k)
		}
		_, _ = fmt.Fprintf(w, "available: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// completeSortArgs offers sort keys for the first argument and, when
// withDirection is set, asc|desc for the second.
func completeSortArgs(withDirection bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch {
		case len(args) == 0:
			out := make([]string, 0, len(query.SortKeys))
			for _, k := range query.SortKeys {
				out = append(out, string(k))
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		case len(args) == 1 && withDirection:
			return []string{"asc", "desc"}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}
