package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/payroll"
	"github.com/ksteinfeldt/punchclock/internal/rates"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

var rateCmd = &cobra.Command{
	Use:     "rate",
	GroupID: GroupManager,
	Short:   "Manage users and their hourly rates",
	Long: `Manage the users allowed to punch the clock and their hourly rates.

Every subcommand asks for the manager password first. When stdin is not a
terminal the password is read from the first line of input.

Examples:
  punchclock rate list             # Show every user and rate
  punchclock rate set alice 20     # Add alice or update her rate
  punchclock rate set bob          # Prompt for bob's rate
  punchclock rate remove alice     # Remove alice`,
	RunE: requireSubcommand,
}

var rateSetCmd = &cobra.Command{
	Use:   "set <user> [rate]",
	Short: "Add a user or update their hourly rate",
	Long: `Add a user with an hourly rate, or update an existing user's rate.

If the rate is omitted it is prompted for. Leaving the prompt empty
cancels without changing anything.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRateSet,
}

var rateRemoveCmd = &cobra.Command{
	Use:     "remove <user>",
	Aliases: []string{"rm"},
	Short:   "Remove a user",
	Args:    cobra.ExactArgs(1),
	RunE:    runRateRemove,
}

var rateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show every user and their hourly rate",
	Args:    cobra.NoArgs,
	RunE:    runRateList,
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.AddCommand(rateSetCmd)
	rateCmd.AddCommand(rateRemoveCmd)
	rateCmd.AddCommand(rateListCmd)
}

// authorize asks for the manager password and checks it.
func authorize(p *prompter) error {
	secret, err := p.Secret("Manager password: ")
	if err != nil {
		return err
	}
	if err := current.checker.Check(secret); err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			current.log.Warn("manager login rejected")
		}
		return err
	}
	current.log.Debug("manager login accepted")
	return nil
}

func runRateSet(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(args[0])
	if err := rates.ValidateUserID(userID); err != nil {
		return err
	}

	p := newPrompter(cmd)
	if err := authorize(p); err != nil {
		return err
	}

	text := ""
	if len(args) == 2 {
		text = args[1]
	} else {
		var err error
		text, err = p.Line(fmt.Sprintf("Hourly rate for %s: ", userID))
		if err != nil {
			return err
		}
	}

	rate, err := rates.ParseRate(text)
	if err != nil {
		return err
	}
	if err := current.rates.Set(userID, rate); err != nil {
		return err
	}

	current.log.Info("rate set", "user", userID, "rate", rate)
	fmt.Fprintln(cmd.OutOrStdout(), style.Successf("User '%s' added/updated with hourly rate of %s", userID, payroll.FormatRate(rate)))
	return nil
}

func runRateRemove(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(args[0])

	if err := authorize(newPrompter(cmd)); err != nil {
		return err
	}
	if err := current.rates.Remove(userID); err != nil {
		if errors.Is(err, rates.ErrUserNotFound) {
			current.log.Warn("remove rejected", "user", userID, "reason", "not found")
		}
		return err
	}

	current.log.Info("rate removed", "user", userID)
	fmt.Fprintln(cmd.OutOrStdout(), style.Successf("User '%s' removed", userID))
	return nil
}

func runRateList(cmd *cobra.Command, args []string) error {
	if err := authorize(newPrompter(cmd)); err != nil {
		return err
	}

	records, err := current.rates.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No users registered. Run 'punchclock rate set <user> <rate>' to add the first user.")
		return nil
	}

	fmt.Fprintf(out, "Users in %s:\n", style.Dim.Render(current.rates.Path()))
	for _, r := range records {
		fmt.Fprintf(out, "  %s %s\n", r.UserID, style.Dim.Render(payroll.FormatRate(r.Rate)))
	}
	return nil
}
