package cmd

import (
	"time"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.sessions.Current()
	if current == nil {
		a.out.Info("No active session")
		return nil
	}

	elapsed, err := a.sessions.Elapsed()
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Printf("Active Session: %s\n", a.out.Bold(current.ProjectName))
	a.out.Field("Started", current.StartTime.Format(time.TimeOnly))
	a.out.Field("Duration", display.FormatDuration(int64(elapsed/time.Second)))
	if current.ProjectPath != "" {
		a.out.Field("Path", current.ProjectPath)
	}
	return nil
}
