package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/config"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

var managerHashSave bool

var managerCmd = &cobra.Command{
	Use:     "manager",
	GroupID: GroupManager,
	Short:   "Manager password settings",
	RunE:    requireSubcommand,
}

var managerHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a new manager password",
	Long: `Read a new manager password and print its bcrypt hash.

Put the hash under [manager] secret_hash in the config file, or pass
--save to write it there directly. A configured hash takes priority over
a plain secret.

Examples:
  punchclock manager hash          # Print the hash
  punchclock manager hash --save   # Store it in the config file`,
	Args: cobra.NoArgs,
	RunE: runManagerHash,
}

func init() {
	rootCmd.AddCommand(managerCmd)
	managerCmd.AddCommand(managerHashCmd)

	managerHashCmd.Flags().BoolVar(&managerHashSave, "save", false, "Write the hash to the config file")
}

func runManagerHash(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd)
	if managerHashSave {
		if err := authorize(p); err != nil {
			return err
		}
	}

	secret, err := p.Secret("New manager password: ")
	if err != nil {
		return err
	}
	hash, err := auth.Hash(secret)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !managerHashSave {
		fmt.Fprintln(out, hash)
		return nil
	}

	path := configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	// Edit the file as written so flag and environment overrides stay out of it
	fileCfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	fileCfg.Manager = config.ManagerConfig{SecretHash: hash}
	if err := fileCfg.Save(path); err != nil {
		return err
	}

	current.log.Info("manager password changed", "config", path)
	fmt.Fprintln(out, style.Successf("Manager password hash saved to %s", path))
	return nil
}
