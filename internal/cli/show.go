package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/present"
)

func newShowCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display a dog with its photo and adoption page",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			d, ok := app.Catalog.Dog(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrDogNotFound, args[0])
			}
			mode, ok := present.ParseMode(strings.ToLower(output))
			if !ok || mode == present.ModeTUI {
				return fmt.Errorf("invalid --output: %s", output)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderDog(cmd.Context(), w, d, present.Options{Mode: mode, JSONIndent: true})
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "pretty", "output mode: plain|pretty|json")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("plain", "pretty", "json"))
	return cmd
}

// completeDogIDs offers ids with the dog's name as the description.
func completeDogIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, err := completionApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	var out []string
	for _, d := range app.Catalog.View() {
		if strings.HasPrefix(d.ID, toComplete) {
			out = append(out, d.ID+"\t"+d.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
