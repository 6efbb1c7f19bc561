package cmd

import (
	"os"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagDBPath  string
	flagNoColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devflow",
	Short: "Track coding sessions, streaks and productivity",
	Long: `devflow records coding sessions per project and turns them into
streaks, achievements and productivity metrics.

Examples:
  devflow start                # Start a session for the current directory
  devflow start api --path .   # Start a session for a named project
  devflow stop                 # Stop the session and record the activity
  devflow stats --days 30      # Show productivity for the last 30 days
  devflow heatmap              # Show the activity heatmap

Shell Completion:
  devflow completion bash         # Generate bash completion
  devflow completion zsh          # Generate zsh completion
  devflow completion fish         # Generate fish completion
  devflow completion powershell   # Generate powershell completion`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.NewStderr().Error(eris.ToString(err, true))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides DEVFLOW_DB_PATH and config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}
