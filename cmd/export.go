package cmd

import (
	"os"
	"path/filepath"

	"github.com/benoctopus/devflow/internal/export"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [json|csv|yaml]",
	Short: "Export your history",
	Long: `Export completed sessions, activity, goals and templates.

The file is written to the current directory as
devflow_export_<YYYYMMDD_HHMMSS>.<format> unless --output is given.
Use --output - to write to stdout. CSV contains sessions only.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"json", "csv", "yaml"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file or directory (- for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := export.FormatJSON
	if len(args) > 0 {
		var err error
		if format, err = export.ParseFormat(args[0]); err != nil {
			return err
		}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := export.Load(a.db)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return export.Write(cmd.OutOrStdout(), format, data)
	}

	path := exportPath(exportOutput, format)
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "failed to create export file: %s", path)
	}

	if err := export.Write(f, format, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "failed to write export file: %s", path)
	}

	a.out.Successf("Data exported to %s", path)
	return nil
}

// exportPath resolves --output: empty means the timestamped name in the
// current directory, an existing directory gets the timestamped name inside it
func exportPath(output string, format export.Format) string {
	name := export.FileName(format, appClock.Now())
	if output == "" {
		return name
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
