package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Attach a note to the active session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNote,
}

var tagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "Tag the active session",
	Args:  cobra.ExactArgs(1),
	RunE:  runTag,
}

func init() {
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(tagCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	note, err := a.sessions.AddNote(strings.Join(args, " "))
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Successf("Note added to '%s'", a.sessions.Current().ProjectName)
	a.logger.Debug().Int("note", note.ID).Int("session", note.SessionID).Msg("note added")
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tag, err := a.sessions.AddTag(strings.TrimSpace(args[0]))
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Successf("Tagged '%s' with %s", a.sessions.Current().ProjectName, a.out.Bold(tag.Name))
	return nil
}
