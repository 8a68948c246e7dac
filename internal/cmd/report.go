package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksteinfeldt/punchclock/internal/clock"
	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/payroll"
	"github.com/ksteinfeldt/punchclock/internal/style"
)

var reportPay bool

var reportCmd = &cobra.Command{
	Use:     "report",
	GroupID: GroupPunch,
	Short:   "Show total hours worked per user",
	Long: `Replay the time log and show the total hours worked by each user.

Each punch-in is paired with the next punch-out for the same user. A
punch-out with no punch-in before it is ignored, and a second punch-in
restarts the open interval. Users still punched in are listed separately.

Examples:
  punchclock report         # Hours per user
  punchclock report --pay   # Hours and amount owed at current rates`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportPay, "pay", false, "Include the amount owed at each user's current rate")
}

func runReport(cmd *cobra.Command, args []string) error {
	c, err := clock.New(current.rates, current.ledger, clock.WithLogger(current.log))
	if err != nil {
		return err
	}

	summary, err := c.Report()
	if err != nil {
		if errors.Is(err, ledger.ErrLedgerNotFound) {
			return fmt.Errorf("time log file not found: %s", current.ledger.Path())
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, style.Bold.Render("User Hours Report:"))

	if reportPay {
		lines, err := c.Payroll(summary)
		if err != nil {
			return err
		}
		printPayroll(out, lines)
	} else {
		for _, userID := range summary.Users() {
			fmt.Fprintf(out, "  User %s: %s\n", userID, payroll.FormatHours(summary.Hours(userID)))
		}
	}

	if len(summary.Users()) == 0 {
		fmt.Fprintln(out, style.Dim.Render("  (no punches recorded)"))
	}

	printOpen(out, summary)
	return nil
}

func printPayroll(w io.Writer, lines []clock.PayLine) {
	for _, l := range lines {
		hours := payroll.FormatHours(payroll.Hours(l.Worked))
		if !l.Rated {
			fmt.Fprintf(w, "  User %s: %s  %s\n", l.UserID, hours, style.Dim.Render("(no rate)"))
			continue
		}
		fmt.Fprintf(w, "  User %s: %s  %s %s\n", l.UserID, hours,
			style.Money.Render(payroll.Money(l.Amount)),
			style.Dim.Render("at "+payroll.FormatRate(l.Rate)))
	}
}

func printOpen(w io.Writer, summary ledger.Summary) {
	if len(summary.Open) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, style.Bold.Render("Punched in:"))
	for _, userID := range summary.Users() {
		start, ok := summary.Open[userID]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s %s since %s\n", style.ArrowPrefix, userID, start.Format(time.DateTime))
	}
}
