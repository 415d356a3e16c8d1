package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/state"
	"github.com/idilsaglam/todo/internal/ui"
)

const indexHint = "Hint: run `todo ls` to see valid indexes"

func newListCmd(app *App) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usagef("%v", err)
			}
			ctrl, err := app.loaded(cmd.Context())
			if err != nil {
				return err
			}
			ctrl.SetFilter(f)
			fmt.Fprintln(cmd.OutOrStdout(), renderList(ctrl.Snapshot(), group))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Show all|active|completed")
	cmd.Flags().BoolVar(&group, "group", false, "Group by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.configuredController()
			if err != nil {
				return err
			}
			res := ctrl.Create(cmd.Context(), strings.Join(args, " "))
			if !res.OK {
				return noticeErr(ctrl)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added #%d", res.Item.ID))
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, it, err := app.pick(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ctrl.Toggle(cmd.Context(), it.ID) {
				return noticeErr(ctrl)
			}
			msg := "completed"
			if it.Completed {
				msg = "reopened"
			}
			ui.OK(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, it, err := app.pick(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ctrl.Delete(cmd.Context(), it.ID) {
				return noticeErr(ctrl)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <index> <title...>",
		Short: "Rename item at 1-based index (an empty title removes it)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, it, err := app.pick(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := ctrl.Rename(cmd.Context(), it.ID, strings.Join(args[1:], " "))
			switch res {
			case state.RenameFailed:
				return noticeErr(ctrl)
			case state.RenameDeleted:
				ui.OK(cmd.OutOrStdout(), "removed")
			case state.RenameUnchanged:
				ui.Hint(cmd.OutOrStdout(), "unchanged")
			default:
				ui.OK(cmd.OutOrStdout(), "renamed")
			}
			return nil
		},
	}
}

func newToggleAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every item, or reopen all when all are completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.loaded(cmd.Context())
			if err != nil {
				return err
			}
			if ctrl.Len() == 0 {
				ui.Hint(cmd.OutOrStdout(), "nothing to toggle")
				return nil
			}
			reopen := ctrl.AllCompleted()
			ctrl.ToggleAll(cmd.Context())
			if err := noticeErr(ctrl); err != nil {
				return err
			}
			if reopen {
				ui.OK(cmd.OutOrStdout(), "all reopened")
			} else {
				ui.OK(cmd.OutOrStdout(), "all completed")
			}
			return nil
		},
	}
}

func newClearCompletedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.loaded(cmd.Context())
			if err != nil {
				return err
			}
			before := ctrl.CompletedCount()
			ctrl.ClearCompleted(cmd.Context())
			cleared := before - ctrl.CompletedCount()
			if err := noticeErr(ctrl); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("cleared %d", cleared))
			return nil
		},
	}
}

// loaded returns a controller holding the server's list.
func (app *App) loaded(ctx context.Context) (*state.Controller, error) {
	ctrl, err := app.configuredController()
	if err != nil {
		return nil, err
	}
	ctrl.Load(ctx)
	if err := noticeErr(ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// pick loads the list and resolves a 1-based index into it.
func (app *App) pick(ctx context.Context, arg string) (*state.Controller, model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, model.Item{}, usagef("not a number: %s", arg)
	}
	ctrl, err := app.loaded(ctx)
	if err != nil {
		return nil, model.Item{}, err
	}
	items := ctrl.Items()
	if n < 1 || n > len(items) {
		return nil, model.Item{}, withHint(
			usagef("index out of range: have %d, got %d", len(items), n),
			indexHint,
		)
	}
	return ctrl, items[n-1], nil
}
