package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/wire"
)

func newFavCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "fav <id>...",
		Short:             "Toggle the favorite flag of dogs",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachDog(cmd, args, func(ctx context.Context, app *wire.App, id string) error {
				d, err := app.Catalog.ToggleFavorite(ctx, id)
				if err != nil {
					return err
				}
				verb := "Unfavorited"
				if d.IsFavorite {
					verb = "Favorited"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, d.Name, d.ID)
				return nil
			})
		},
	}
}

func newSeenCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:               "seen [id...]",
		Short:             "Mark dogs as seen so they no longer show as new",
		ValidArgsFunction: completeDogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass dog ids or --all")
			}
			if all {
				app, err := loadedApp(cmd)
				if err != nil {
					return err
				}
				args = idsWhere(app.Catalog.Dogs(), func(d dogs.Dog) bool { return d.IsNew })
			}
			return eachDog(cmd, args, func(ctx context.Context, app *wire.App, id string) error {
				d, err := app.Catalog.MarkSeen(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s (%s) as seen\n", d.Name, d.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "mark every new dog as seen")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var unavailable bool
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove [id...]",
		Short: "Forget what is stored about dogs",
		Long: `Forget the favorite and seen state of dogs. A dog that is still listed
comes back as new; one that is no longer listed disappears.`,
		ValidArgsFunction: completeDogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unavailable == (len(args) > 0) {
				return errors.New("pass dog ids or --unavailable")
			}
			if unavailable {
				app, err := loadedApp(cmd)
				if err != nil {
					return err
				}
				args = idsWhere(app.Catalog.Dogs(), func(d dogs.Dog) bool { return !d.IsAvailable })
				if len(args) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No unlisted dogs to remove.")
					return nil
				}
				if err := confirmRemove(fmt.Sprintf("Remove %d unlisted dogs?", len(args)), yes); err != nil {
					return err
				}
			}
			return eachDog(cmd, args, func(ctx context.Context, app *wire.App, id string) error {
				if err := app.Catalog.RemoveDog(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "remove every dog that is no longer listed")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// eachDog loads the catalog and applies fn to every id, collecting failures.
// A change that could not be saved is reported and counts as a failure.
func eachDog(cmd *cobra.Command, ids []string, fn func(context.Context, *wire.App, string) error) error {
	app, err := loadedApp(cmd)
	if err != nil {
		return err
	}
	var errs error
	for _, id := range ids {
		if err := fn(cmd.Context(), app, id); err != nil {
			if errors.Is(err, catalog.ErrDogNotFound) {
				err = fmt.Errorf("%w (see \"list\" for ids)", err)
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func idsWhere(all []dogs.Dog, keep func(dogs.Dog) bool) []string {
	var out []string
	for _, d := range all {
		if keep(d) {
			out = append(out, d.ID)
		}
	}
	return out
}

func confirmRemove(title string, yes bool) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("Their favorite and seen state will be deleted.").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
