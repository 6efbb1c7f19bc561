package cmd

import (
	"github.com/spf13/cobra"
)

const streakHistoryRows = 5

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest coding streak",
	Long: `Show the consecutive-day coding streak. The streak is shared by all
projects: coding on any project keeps it alive.`,
	Args: cobra.NoArgs,
	RunE: runStreak,
}

func init() {
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tracker := a.sessions.Streaks()

	current, err := tracker.CurrentLength()
	if err != nil {
		return err
	}
	longest, err := tracker.Longest()
	if err != nil {
		return err
	}

	a.out.Header("Coding Streak")
	a.out.Field("Current", pluralDays(current))
	a.out.Field("Longest", pluralDays(longest))

	history, err := tracker.History()
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}

	a.out.Println()
	a.out.Println(a.out.Bold("Recent streaks:"))
	if len(history) > streakHistoryRows {
		history = history[:streakHistoryRows]
	}
	for _, s := range history {
		marker := ""
		if s.Active {
			marker = a.out.SuccessText(" (active)")
		}
		a.out.Printf("  %s → %s  %s%s\n", s.StartDate, s.EndDate, pluralDays(s.Length), marker)
	}
	return nil
}
