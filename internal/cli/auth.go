package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the API",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	cmd.AddCommand(newAuthWhoamiCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store a token (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				t, err := readToken(cmd)
				if err != nil {
					return failed(err)
				}
				token = t
			}
			if err := auth.SetToken(token); err != nil {
				if errors.Is(err, auth.ErrEmptyToken) {
					return usagef("%v", err)
				}
				return failed(err)
			}
			p, _ := auth.CredentialsPath()
			app.logger.Debug("token stored", "path", p)
			ui.OK(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && ui.IsTerminal(f) {
		fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteToken(); err != nil {
				return failed(err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.GetToken()
			if err != nil {
				return failed(err)
			}
			if ti == nil {
				return withHint(failed(errors.New("not logged in")), "Hint: run `todo auth login`")
			}
			out := cmd.OutOrStdout()
			src := ti.Source
			if src == "env" {
				src = "env (" + auth.EnvToken + ")"
			} else if p, err := auth.CredentialsPath(); err == nil {
				src = "file (" + p + ")"
			}
			fmt.Fprintf(out, "source:  %s\n", src)
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(out, "expires: never")
			case ti.Expired(time.Now()):
				fmt.Fprintf(out, "expires: %s (expired)\n", ti.ExpiresAt.Format(time.RFC3339))
			default:
				fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Decode the token's JWT payload locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.GetToken()
			if err != nil {
				return failed(err)
			}
			if ti == nil {
				return withHint(failed(errors.New("not logged in")), "Hint: run `todo auth login`")
			}
			payload, ok := auth.JWTPayload(ti.Token)
			if !ok {
				return failed(errors.New("token is not a JWT"))
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, []byte(payload), "", "  "); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), buf.String())
			return nil
		},
	}
}
