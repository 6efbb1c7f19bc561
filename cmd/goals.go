package cmd

import (
	"strconv"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/metrics"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage daily coding goals",
}

var goalsSetCmd = &cobra.Command{
	Use:   "set <hours>",
	Short: "Set today's coding goal in hours",
	Long: `Set today's daily goal. Hours may be fractional; setting a goal again
for the same day replaces it.

Examples:
  devflow goals set 4
  devflow goals set 1.5`,
	Args: cobra.ExactArgs(1),
	RunE: runGoalsSet,
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's goal progress",
	Args:  cobra.NoArgs,
	RunE:  runGoalsShow,
}

func init() {
	goalsCmd.AddCommand(goalsSetCmd)
	goalsCmd.AddCommand(goalsShowCmd)
	rootCmd.AddCommand(goalsCmd)
}

// hoursToMinutes parses a positive, possibly fractional, hour count
func hoursToMinutes(s string) (int, error) {
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid number of hours: %q", s)
	}
	if hours <= 0 || hours > 24 {
		return 0, eris.Errorf("goal must be between 0 and 24 hours, got %s", s)
	}
	return int(hours * 60), nil
}

func runGoalsSet(cmd *cobra.Command, args []string) error {
	minutes, err := hoursToMinutes(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	goal := &models.Goal{GoalType: metrics.GoalDaily, Date: a.metrics.Today(), TargetValue: minutes}
	if err := db.SetGoal(a.db, goal); err != nil {
		return err
	}

	a.out.Successf("Daily goal set: %sh", args[0])
	return nil
}

func runGoalsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.metrics.GoalProgress(a.metrics.Today())
	if err != nil {
		return err
	}

	if !status.Set {
		a.out.Infof("No goal set for today (%s coded). Set one with 'devflow goals set <hours>'",
			display.FormatMinutes(status.CodedMinutes))
		return nil
	}

	printGoal(a.out, status)
	if status.Percent >= 100 {
		a.out.Success("Goal reached")
	}
	return nil
}
