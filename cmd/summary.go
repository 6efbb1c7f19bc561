package cmd

import (
	"fmt"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/spf13/cobra"
)

var summaryDays int

var summaryCmd = &cobra.Command{
	Use:   "summary [project]",
	Short: "Show the weekly summary for a project",
	Long: `Show the last seven days of a project: sessions, time, changes,
productivity score and the current streak.

Without a project the current directory name is used. --days adds the
productivity score over a different trailing window.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeProjects,
	RunE:              runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&summaryDays, "days", "d", 0, "Also score the last N days")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	project := workingProject()
	if len(args) > 0 {
		project = args[0]
	}

	s, err := a.metrics.WeeklySummary(project)
	if err != nil {
		return err
	}

	a.out.Header(fmt.Sprintf("Weekly Summary: %s", project))
	a.out.Field("Sessions", display.FormatCount(s.Sessions))
	a.out.Field("Total time", display.FormatDuration(s.TotalSeconds))
	a.out.Field("Average session", display.FormatDuration(s.AverageSeconds))
	a.out.Field("Files changed", display.FormatCount(s.FilesChanged))
	a.out.Field("Lines", fmt.Sprintf("+%s -%s", display.FormatCount(s.LinesAdded), display.FormatCount(s.LinesRemoved)))
	a.out.Field("Productivity", fmt.Sprintf("%.1f%% %s", s.ProductivityScore, display.ProgressBar(s.ProductivityScore, 20)))
	if summaryDays > 0 && summaryDays != s.Days {
		score, err := a.metrics.ProductivityScore(project, summaryDays)
		if err != nil {
			return err
		}
		a.out.Field(fmt.Sprintf("Productivity (%s)", pluralDays(summaryDays)),
			fmt.Sprintf("%.1f%% %s", score, display.ProgressBar(score, 20)))
	}
	a.out.Field("Current streak", pluralDays(s.StreakLength))
	return nil
}
