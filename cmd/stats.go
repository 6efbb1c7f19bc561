package cmd

import (
	"fmt"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/metrics"
	"github.com/spf13/cobra"
)

const statsTopProjects = 5

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity statistics",
	Long: `Show coding time per project, totals and today's goal progress
for the trailing window (default_days in config, 7 unless set).`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 0, "Number of days to include")
	rootCmd.AddCommand(statsCmd)
}

// resolveDays applies the configured default to an unset --days flag
func resolveDays(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	days := resolveDays(statsDays, a.cfg.DefaultDays)

	board, err := a.metrics.Leaderboard(days)
	if err != nil {
		return err
	}
	totals, err := a.metrics.Totals(days)
	if err != nil {
		return err
	}

	a.out.Header(fmt.Sprintf("Productivity Stats (Last %d days)", days))

	if len(board) == 0 {
		a.out.Info("No completed sessions in this period")
	} else {
		a.out.Println()
		a.out.Println(a.out.Bold("Top Projects:"))
		if len(board) > statsTopProjects {
			board = board[:statsTopProjects]
		}
		for i, p := range board {
			printProjectStats(a.out, i+1, p)
		}
	}

	a.out.Println()
	a.out.Printf("Total Coding Time: %s\n", display.FormatDuration(totals.TotalSeconds))
	a.out.Printf("Total Sessions: %s\n", display.FormatCount(totals.Sessions))
	if totals.Sessions > 0 {
		a.out.Printf("Average Session: %s\n", display.FormatDuration(totals.AverageSeconds))
	}

	goal, err := a.metrics.GoalProgress(a.metrics.Today())
	if err != nil {
		return err
	}
	if goal.Set {
		printGoal(a.out, goal)
	}
	return nil
}

func printProjectStats(out display.Printer, rank int, p metrics.ProjectStats) {
	out.Printf("  %d. %s\n", rank, out.Bold(p.Project))
	out.Printf("     Time: %s (%s sessions, avg %s)\n",
		display.FormatDuration(p.TotalSeconds),
		display.FormatCount(p.Sessions),
		display.FormatDuration(p.AverageSeconds))
	if p.FilesChanged > 0 {
		out.Printf("     Changes: %s files, +%s/-%s lines\n",
			display.FormatCount(p.FilesChanged),
			display.FormatCount(p.LinesAdded),
			display.FormatCount(p.LinesRemoved))
	}
}

func printGoal(out display.Printer, goal *metrics.GoalStatus) {
	out.Println()
	out.Printf("Today's Goal: %s / %s (%.1f%%)\n",
		display.FormatMinutes(goal.CodedMinutes),
		display.FormatMinutes(goal.TargetMinutes),
		goal.Percent)
	out.Printf("   %s %.1f%%\n", display.ProgressBar(goal.Percent, 20), goal.Percent)
}
