package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardDays int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank projects by coding time",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardDays, "days", "d", 30, "Number of days to include")
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	board, err := a.metrics.Leaderboard(leaderboardDays)
	if err != nil {
		return err
	}

	a.out.Header(fmt.Sprintf("Project Leaderboard (Last %d days)", leaderboardDays))
	if len(board) == 0 {
		a.out.Info("No completed sessions in this period")
		return nil
	}

	for i, p := range board {
		printProjectStats(a.out, i+1, p)
	}
	return nil
}
