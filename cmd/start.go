package cmd

import (
	"path/filepath"
	"time"

	"github.com/benoctopus/devflow/internal/session"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var startPath string

var startCmd = &cobra.Command{
	Use:   "start [project]",
	Short: "Start a coding session",
	Long: `Start tracking a coding session.

Without a project name the session is named after the current directory and
its path is recorded so change statistics can be collected when it stops.

Examples:
  devflow start                  # Use the current directory
  devflow start api              # Named project, no path
  devflow start api --path ~/src/api`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeProjects,
	RunE:              runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startPath, "path", "p", "", "Project directory")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	path := startPath
	if path != "" {
		if path, err = filepath.Abs(path); err != nil {
			return eris.Wrapf(err, "failed to resolve path: %s", startPath)
		}
	}

	s, err := a.sessions.Start(name, path)
	if eris.Is(err, session.ErrAlreadyActive) {
		active := a.sessions.Current()
		a.errOut.Warningf("Session already active for '%s'", active.ProjectName)
		a.errOut.Field("Started", active.StartTime.Format(time.DateTime))
		return nil
	}
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Successf("Started session for '%s'", a.out.Bold(s.ProjectName))
	a.out.Field("Time", s.StartTime.Format(time.TimeOnly))
	if s.ProjectPath != "" {
		a.out.Field("Path", s.ProjectPath)
	}
	return nil
}
