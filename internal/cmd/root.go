// Package cmd provides the punchclock command line.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/clock"
	"github.com/ksteinfeldt/punchclock/internal/config"
	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/logging"
	"github.com/ksteinfeldt/punchclock/internal/rates"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

// Command group IDs.
const (
	GroupPunch   = "punch"
	GroupManager = "manager"
)

var (
	configPath  string
	dataDirFlag string
	debugFlag   bool
)

// app is what every subcommand works against. It is built once per
// invocation by the root command's pre-run hook.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	rates    *rates.Store
	ledger   *ledger.Ledger
	checker  auth.Checker
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "punchclock",
	Short: "Record punch-ins and punch-outs and work out what is owed",
	Long: `punchclock keeps an append-only time log of punch-in and punch-out
events and a table of hourly pay rates.

Employees punch in and out by user id. Managers maintain the rate table
behind a shared secret and read the time report.

Examples:
  punchclock in alice          # Start alice's shift
  punchclock out alice         # End it and show the amount owed
  punchclock report --pay      # Hours and pay per user
  punchclock rate set alice 20 # Manager: set alice's hourly rate
  punchclock tui               # Interactive terminal UI`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupPunch, Title: "Time Clock:"},
		&cobra.Group{ID: GroupManager, Title: "Manager Tools:"},
	)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir/punchclock/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the rate and time files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level to stderr")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	defer teardownApp(rootCmd, nil) //nolint:errcheck

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return 1
	}
	return 0
}

// annotationNoApp marks commands that must run even when the config is broken.
const annotationNoApp = "punchclock/no-app"

func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationNoApp] == "true" {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	log, closeLog, err := logging.New(logging.Options{
		Path:   cfg.LogPath(),
		Level:  cfg.LogLevel,
		Debug:  debugFlag,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	current = &app{
		cfg:      cfg,
		log:      log.With("cmd", cmd.Name(), "run", uuid.NewString()),
		closeLog: closeLog,
		rates:    rates.NewStore(cfg.RatesPath()),
		ledger:   ledger.New(cfg.LedgerPath()),
		checker:  auth.New(cfg.Manager.Secret, cfg.Manager.SecretHash),
	}
	current.log.Debug("loaded config", "data_dir", cfg.DataDir, "rates", cfg.RatesPath(), "ledger", cfg.LedgerPath())
	return nil
}

func teardownApp(cmd *cobra.Command, args []string) error {
	if current == nil {
		return nil
	}
	err := current.closeLog()
	current = nil
	return err
}

// newClock builds a Clock that picks up sessions left open by earlier runs.
func (a *app) newClock() (*clock.Clock, error) {
	return clock.New(a.rates, a.ledger,
		clock.WithLogger(a.log),
		clock.WithRestoredSessions(),
	)
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", cmd.CommandPath())
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for usage", args[0], cmd.CommandPath(), cmd.CommandPath())
}

// isRejection reports whether err is an operator mistake rather than a failure.
func isRejection(err error) bool {
	return errors.Is(err, clock.ErrUnknownUser) ||
		errors.Is(err, clock.ErrAlreadyPunchedIn) ||
		errors.Is(err, clock.ErrNotPunchedIn) ||
		errors.Is(err, rates.ErrUserNotFound) ||
		errors.Is(err, rates.ErrInvalidUserID) ||
		errors.Is(err, rates.ErrInvalidRate) ||
		errors.Is(err, auth.ErrAccessDenied) ||
		errors.Is(err, errCancelled)
}

func printError(err error) {
	if isRejection(err) {
		fmt.Fprintln(os.Stderr, style.Warningf("%v", err))
		return
	}
	fmt.Fprintln(os.Stderr, style.Errorf("%v", err))
}
