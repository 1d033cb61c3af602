package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/kennel/internal/config"
	"github.com/mithrel/kennel/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// skipApp marks commands that run without wiring the catalog.
const skipApp = "kennel/skip-app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "kennel-cli",
		Short:         "Browse adoptable dogs and keep track of favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newFavCmd())
	cmd.AddCommand(newSeenCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newSortCmd())
	cmd.AddCommand(newFacetsCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipApp] == "true" {
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

// loadedApp returns the app after running the catalog pipeline.
func loadedApp(cmd *cobra.Command) (*wire.App, error) {
	app := getApp(cmd)
	if err := app.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return app, nil
}
