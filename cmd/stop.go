package cmd

import (
	"fmt"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active session",
	Long: `Stop the active session and record its activity.

Closing a session adds its minutes to the day's activity, updates the coding
streak and checks for newly unlocked achievements.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.sessions.Stop()
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Successf("Stopped session for '%s'", a.out.Bold(result.Session.ProjectName))
	a.out.Field("Duration", display.FormatDuration(result.Session.Duration))
	if result.FilesChanged > 0 {
		a.out.Field("Files changed", display.FormatCount(result.FilesChanged))
		a.out.Field("Lines", fmt.Sprintf("+%s -%s",
			display.FormatCount(result.LinesAdded),
			display.FormatCount(result.LinesRemoved)))
	}
	a.out.Field("Streak", pluralDays(result.StreakLength))

	for _, achievement := range result.Unlocked {
		a.out.Successf("Achievement unlocked: %s - %s", a.out.Bold(achievement.Name), achievement.Description)
	}
	return nil
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
