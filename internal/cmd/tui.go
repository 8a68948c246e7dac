package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	GroupID: GroupPunch,
	Short:   "Open the interactive punch clock",
	Long: `Open a full-screen punch clock in the terminal.

Type a user id and punch in or out with the configured keys. The manager
tools (add/update user, remove user) unlock with the manager password.
Key bindings can be changed under [keys] in the config file.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := current.newClock()
	if err != nil {
		return err
	}

	current.log.Info("starting terminal ui")
	return tui.Run(tui.Options{
		Clock:   c,
		Rates:   current.rates,
		Checker: current.checker,
		Keys:    current.cfg.Keys,
		Log:     current.log,
	})
}
