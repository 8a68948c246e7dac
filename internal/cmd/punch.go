package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/payroll"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

var punchInCmd = &cobra.Command{
	Use:     "in <user>",
	GroupID: GroupPunch,
	Short:   "Punch a user in",
	Long: `Record a punch-in for a user at the current time.

The user must have an hourly rate. A user who is already punched in
cannot punch in again until they punch out.

Example:
  punchclock in alice`,
	Args: cobra.ExactArgs(1),
	RunE: runPunchIn,
}

var punchOutCmd = &cobra.Command{
	Use:     "out <user>",
	GroupID: GroupPunch,
	Short:   "Punch a user out and show what is owed",
	Long: `Record a punch-out for a user at the current time.

Prints the length of the shift and the amount owed at the user's
current hourly rate.

Example:
  punchclock out alice`,
	Args: cobra.ExactArgs(1),
	RunE: runPunchOut,
}

func init() {
	rootCmd.AddCommand(punchInCmd)
	rootCmd.AddCommand(punchOutCmd)
}

func runPunchIn(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(args[0])

	c, err := current.newClock()
	if err != nil {
		return err
	}
	if err := c.PunchInNow(userID); err != nil {
		return err
	}

	start := c.Active()[userID]
	fmt.Fprintln(cmd.OutOrStdout(), style.Successf("%s punched in at %s", style.Bold.Render(userID), start.Format(time.TimeOnly)))
	return nil
}

func runPunchOut(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(args[0])

	c, err := current.newClock()
	if err != nil {
		return err
	}
	shift, err := c.PunchOutNow(userID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, style.Successf("%s punched out at %s", style.Bold.Render(userID), shift.End.Format(time.TimeOnly)))
	fmt.Fprintf(out, "  Worked: %s %s\n",
		payroll.FormatDuration(shift.Duration),
		style.Dim.Render("("+payroll.FormatHours(shift.Hours())+")"))
	if shift.Rated {
		fmt.Fprintf(out, "  Owed:   %s %s\n",
			style.Money.Render(payroll.Money(shift.Amount)),
			style.Dim.Render("at "+payroll.FormatRate(shift.Rate)))
	} else {
		fmt.Fprintln(out, style.Warningf("no hourly rate on file for %s; amount owed not computed", userID))
	}
	return nil
}
