package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/plume/internal/client/client"
	"github.com/dmitrijs2005/plume/internal/client/config"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/spf13/cobra"
)

const programName = "plume"

type appFactory func(ctx context.Context, c *config.Config) (*App, error)

type rootFlags struct {
	configFile string
	addr       string
	timeout    int
	retries    uint64
	dataDir    string
}

// NewRootCommand builds the plume command tree. The returned cleanup closes
// whatever the executed command opened and must be called once it returns.
func NewRootCommand() (*cobra.Command, func() error) {
	return newRootCommand(NewApp)
}

func newRootCommand(factory appFactory) (*cobra.Command, func() error) {
	var (
		flags  rootFlags
		app    *App
		cancel context.CancelFunc
	)

	root := &cobra.Command{
		Use:           programName,
		Short:         "Publish poems, cast feathers and collect rewards on a Plume server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig(flags.configFile)
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.ServerEndpointAddr = flags.addr
			}
			if f.Changed("timeout") {
				cfg.RequestTimeout = secondsFlag(flags.timeout)
			}
			if f.Changed("retries") {
				cfg.RetryAttempts = flags.retries
			}
			if f.Changed("data-dir") {
				cfg.DataDir = flags.dataDir
			}

			ctx, c := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			cancel = c
			cmd.SetContext(ctx)

			a, err := factory(ctx, cfg)
			if err != nil {
				return err
			}
			a.reader = bufio.NewReader(cmd.InOrStdin())
			a.out = cmd.OutOrStdout()
			if err := a.restoreSession(ctx); err != nil {
				_ = a.Close()
				return err
			}
			app = a
			return nil
		},
	}

	cleanup := func() error {
		if cancel != nil {
			defer cancel()
		}
		if app == nil {
			return nil
		}
		a := app
		app = nil
		return a.Close()
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "path to JSON config file")
	pf.StringVarP(&flags.addr, "addr", "a", "", "address and port of the Plume server")
	pf.IntVarP(&flags.timeout, "timeout", "t", 0, "request timeout in seconds")
	pf.Uint64Var(&flags.retries, "retries", 0, "retries of transient failures")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory of the local session database")

	get := func() *App { return app }
	root.AddCommand(
		registerCommand(get),
		loginCommand(get),
		logoutCommand(get),
		whoamiCommand(get),
		pingCommand(get),
		userCommand(get),
		totemCommand(get),
		poemCommand(get),
		featherCommand(get),
		loreCommand(get),
	)
	forgetExpiredSession(root, get)
	return root, cleanup
}

// forgetExpiredSession wraps every command so that a TOKEN_EXPIRED answer
// drops the stored session and the next command starts logged out.
func forgetExpiredSession(cmd *cobra.Command, app func() *App) {
	for _, c := range cmd.Commands() {
		forgetExpiredSession(c, app)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if apperrors.CodeOf(err) != apperrors.CodeTokenExpired {
			return err
		}
		if a := app(); a != nil && a.session != nil {
			if cerr := a.clearSession(context.WithoutCancel(cmd.Context())); cerr != nil {
				return errors.Join(err, cerr)
			}
		}
		return err
	}
}

// Execute runs the command tree and prints a single line for any failure.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, cleanup := NewRootCommand()
	defer func() { _ = cleanup() }()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

// describe renders domain errors as "CODE: message".
func describe(err error) string {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperrors.CodeTokenExpired:
		return "session expired, run `plume login` again"
	case errors.As(err, &appErr):
		return fmt.Sprintf("%s: %s", appErr.Code, appErr.Message)
	case errors.Is(err, client.ErrNotLoggedIn):
		return "not logged in, run `plume login` first"
	default:
		return err.Error()
	}
}
