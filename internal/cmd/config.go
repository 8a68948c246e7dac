package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/config"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
	RunE:  requireSubcommand,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file, the
PUNCHCLOCK_HOME environment variable and --data-dir are applied.

Manager secrets are not printed.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write a config file holding the defaults.

Runs without loading the existing config, so --force can replace a file
that no longer parses or validates.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE:        runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *current.cfg
	shown.Manager = config.ManagerConfig{}

	out := cmd.OutOrStdout()
	if err := toml.NewEncoder(out).Encode(shown); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "# rates:  %s\n", current.cfg.RatesPath())
	fmt.Fprintf(out, "# ledger: %s\n", current.cfg.LedgerPath())
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), style.Successf("Wrote %s", path))
	return nil
}
