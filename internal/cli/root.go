// Package cli is the cobra command tree. With no subcommand it starts the
// interactive UI; every subcommand drives the same state controller.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/api"
	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/state"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

// App holds flag values and what PersistentPreRunE resolves from them.
type App struct {
	APIURL   string
	UserID   int
	Theme    string
	LogFile  string
	LogLevel string

	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
}

// Run executes the command tree with os.Args-style args and returns the
// process exit code (0 ok, 1 operation failed, 2 usage).
func Run(args []string) int {
	return execute(args, os.Stdin, os.Stdout, os.Stderr)
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return (&App{}).execute(args, stdin, stdout, stderr)
}

func (app *App) execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	// cobra skips post-run hooks after an error, so the log is closed here
	if app.closeLog != nil {
		if cerr := app.closeLog(); cerr != nil && err == nil {
			err = failed(cerr)
		}
	}
	if err != nil {
		ui.Fail(stderr, err.Error())
		var ee *exitError
		if errors.As(err, &ee) && ee.hint != "" {
			ui.Hint(stderr, ee.hint)
		}
	}
	return exitCode(err)
}

func NewRootCmd() *cobra.Command { return newRootCmd(&App{}) }

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Todo list client for a remote REST collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive UI
  todo --user-id 1685

  # Scriptable commands
  todo add "Buy milk"
  todo ls --filter active
  todo done 2
  todo rename 2 "Buy oat milk"
  todo rm 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.APIURL, "api-url", "", "Remote collection root (default "+config.DefaultAPIURL+")")
	pf.IntVar(&app.UserID, "user-id", 0, "Owner identity")
	pf.StringVar(&app.Theme, "theme", "", "Color theme (classic|neon|mono)")
	pf.StringVar(&app.LogFile, "log-file", "", "Append logs to this file")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newToggleAllCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// overrides collects only the flags the user actually set.
func (app *App) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	fl := cmd.Flags()
	if fl.Changed("api-url") {
		ov.APIURL = &app.APIURL
	}
	if fl.Changed("user-id") {
		ov.UserID = &app.UserID
	}
	if fl.Changed("theme") {
		ov.Theme = &app.Theme
	}
	if fl.Changed("log-file") {
		ov.LogFile = &app.LogFile
	}
	if fl.Changed("log-level") {
		ov.LogLevel = &app.LogLevel
	}
	return ov
}

func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.overrides(cmd))
	if err != nil {
		return usagef("%v", err)
	}
	app.cfg = cfg
	ui.SetTheme(cfg.Theme)

	opts := logging.DefaultOptions()
	opts.Level = cfg.Level()

	// The interactive UI owns the terminal, so without a log file it logs nowhere.
	var fallback io.Writer = cmd.ErrOrStderr()
	if !cmd.HasParent() {
		fallback = nil
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, fallback, opts)
	if err != nil {
		return failed(err)
	}
	app.logger, app.closeLog = logger, closeLog
	logger.Debug("config loaded", "files", cfg.Files, "api_url", cfg.APIURL, "user_id", cfg.UserID)
	return nil
}

// controller wires config, credentials and the API client into a controller.
func (app *App) controller() (*state.Controller, error) {
	var token string
	ti, err := auth.GetToken()
	if err != nil {
		app.logger.Warn("ignoring stored credentials", "err", err)
	} else if ti != nil {
		token = ti.Token
	}

	client, err := api.NewClient(api.Config{
		BaseURL: app.cfg.APIURL,
		UserID:  app.cfg.UserID,
		Token:   token,
		Logger:  app.logger,
	})
	if err != nil {
		return nil, usagef("%v", err)
	}
	return state.New(client, state.Options{
		UserID:            app.cfg.UserID,
		Logger:            app.logger,
		DeleteConcurrency: app.cfg.DeleteConcurrency,
		UpdateConcurrency: app.cfg.UpdateConcurrency,
	}), nil
}

// configuredController is controller for subcommands, which need an owner.
func (app *App) configuredController() (*state.Controller, error) {
	if app.cfg.UserID == 0 {
		return nil, withHint(
			usagef("no user configured"),
			fmt.Sprintf("Hint: set user_id in %s, export TODO_USER_ID or pass --user-id", config.UserConfigPath()),
		)
	}
	return app.controller()
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctrl, err := app.controller()
	if err != nil {
		return err
	}
	if err := tui.Run(cmd.Context(), ctrl); err != nil {
		return failed(err)
	}
	return nil
}
