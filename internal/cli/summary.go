package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/kennel/internal/present"
)

func newFacetsCmd() *cobra.Command {
	var output string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show the filter values present in the catalog with counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			mode, err := summaryMode(output)
			if err != nil {
				return err
			}
			return present.RenderFacets(cmd.OutOrStdout(), app.Catalog.Facets(), present.Options{Mode: mode, Headers: !noHeaders})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output mode: plain|json")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide section headers")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("plain", "json"))
	return cmd
}

func newStatsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			mode, err := summaryMode(output)
			if err != nil {
				return err
			}
			return present.RenderStats(cmd.OutOrStdout(), app.Catalog.Stats(), present.Options{Mode: mode})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output mode: plain|json")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("plain", "json"))
	return cmd
}

func summaryMode(output string) (present.Mode, error) {
	mode, ok := present.ParseMode(strings.ToLower(output))
	if !ok || (mode != present.ModePlain && mode != present.ModeJSON) {
		return 0, fmt.Errorf("invalid --output: %s", output)
	}
	return mode, nil
}
