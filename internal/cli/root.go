// Package cli implements the kai command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/auth"
	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/config"
	"github.com/kaihub/kai/internal/mutate"
	"github.com/kaihub/kai/internal/navstate"
	"github.com/kaihub/kai/internal/store"
	"github.com/kaihub/kai/internal/watcher"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kai",
	Short: "Manage kai organizations, projects, sandboxes and workflows",
	Long: `kai is the command-line client for the kai development platform.

It manages the Organization → Workspace → Project hierarchy, the sandbox
containers projects run in, and the workflows that drive them through
their lifecycle phases.

Quick start:
  kai login --token <token>    Store your API session
  kai orgs list                Browse the hierarchy
  kai projects list            List projects
  kai progress <project-id>    Show workflow progress
  kai tasks watch <project-id> Follow task execution live`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.kai/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newOrgsCmd())
	rootCmd.AddCommand(newWorkspacesCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newSandboxCmd())
	rootCmd.AddCommand(newWorkflowsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newPhaseCmd())
	rootCmd.AddCommand(newStepCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newContextCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// app bundles the wired client stack for one command invocation.
type app struct {
	cfg   *config.Config
	auth  *auth.Store
	api   *client.Client
	store *store.Store
	mut   *mutate.Orchestrator
	watch *watcher.Watcher
	nav   *navstate.Manager
}

// newApp loads config and wires the client stack. The on-unauthorized hook
// clears stored credentials and drops every cached entity, so a rejected
// session leaves nothing behind.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	logger := newLogger()
	creds := auth.NewStore(dir)

	a := &app{cfg: cfg, auth: creds}
	a.api, err = client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenSource(creds),
		client.WithLogger(logger),
		client.WithOnUnauthorized(func() {
			expireSession(creds, a.store, logger)
		}),
	)
	if err != nil {
		return nil, err
	}

	a.store = store.New(a.api, cfg, store.WithLogger(logger))
	a.mut = mutate.New(a.api, a.store, mutate.WithLogger(logger))
	a.watch = watcher.New(a.api, cfg.APIURL, cfg.PollInterval, watcher.WithLogger(logger))
	return a, nil
}

// expireSession clears stored credentials and drops cached entities after
// the server rejects the session. A failed Clear is logged rather than
// swallowed; the session is still treated as expired.
func expireSession(creds *auth.Store, st *store.Store, logger *slog.Logger) {
	if err := creds.Clear(); err != nil {
		logger.Warn("failed to clear stored credentials", "error", err)
	}
	if st != nil {
		st.Reset()
	}
	fmt.Fprintln(os.Stderr, "Session expired; run 'kai login' to authenticate again.")
}

// navManager lazily opens the navigation state database.
func (a *app) navManager() (*navstate.Manager, error) {
	if a.nav != nil {
		return a.nav, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	a.nav, err = navstate.Open(filepath.Join(dir, "navstate.db"))
	if err != nil {
		return nil, err
	}
	return a.nav, nil
}

func (a *app) close() {
	if a.nav != nil {
		a.nav.Close()
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
