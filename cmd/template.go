package cmd

import (
	"os"
	"path/filepath"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/fuzzy"
	"github.com/benoctopus/devflow/internal/template"
	"github.com/benoctopus/devflow/internal/tty"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var templateDescription string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Capture and reuse project templates",
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Save the current directory as a template",
	Long: `Save every file under the current directory as a named template.

VCS metadata, editor folders, dependency folders, .env files and
*.pyc/*.log/*.tmp files are left out. Binary files are recorded by name only
and are not restored.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateCreate,
}

var templateUseCmd = &cobra.Command{
	Use:   "use [name] <path>",
	Short: "Write a template's files into a directory",
	Long: `Write the files of a template into path, creating it if needed.

When the name is omitted in an interactive terminal the template is picked
with fzf or peco (fuzzy_finder in config).`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeTemplates,
	RunE:              runTemplateUse,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateDescription, "description", "d", "", "Template description")
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateUseCmd)
	templateCmd.AddCommand(templateListCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return eris.Wrap(err, "failed to get current working directory")
	}

	t, err := template.Create(a.db, args[0], templateDescription, cwd)
	if err != nil {
		return a.handleEngineError(err)
	}

	a.out.Successf("Template '%s' created", a.out.Bold(t.Name))
	a.out.Field("Files included", display.FormatCount(len(t.Files)))
	return nil
}

func runTemplateUse(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var name, target string
	if len(args) == 2 {
		name, target = args[0], args[1]
	} else {
		target = args[0]
		if name, err = a.pickTemplate(); err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	}

	target, err = filepath.Abs(target)
	if err != nil {
		return eris.Wrapf(err, "failed to resolve path: %s", target)
	}

	result, err := template.Apply(a.db, name, target)
	if err != nil {
		return a.handleEngineError(err)
	}

	for _, skipped := range result.Skipped {
		a.errOut.Warningf("Skipping binary file: %s", skipped)
	}
	a.out.Successf("Template '%s' applied to %s", a.out.Bold(name), target)
	a.out.Field("Created", display.FormatCount(len(result.Created))+" files")
	return nil
}

// pickTemplate asks the user for a template name; an empty name means there was nothing to pick
func (a *app) pickTemplate() (string, error) {
	if !tty.IsInteractive() {
		return "", eris.New("template name is required when not running in a terminal")
	}

	names, err := template.Names(a.db)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		a.out.Info("No templates yet. Create one with 'devflow template create <name>'")
		return "", nil
	}

	name, err := fuzzy.SelectUsing(names, "Select a template", a.cfg.FuzzyFinder)
	if eris.Is(err, fuzzy.ErrCancelled) {
		return "", nil
	}
	return name, err
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	templates, err := template.List(a.db)
	if err != nil {
		return err
	}

	if len(templates) == 0 {
		a.out.Info("No templates yet")
		return nil
	}

	a.out.Header("Templates")
	for _, t := range templates {
		a.out.Printf("  %s  %s  %s\n",
			a.out.Bold(t.Name),
			a.out.Faint(display.FormatCount(len(t.Files))+" files"),
			t.Description)
	}
	return nil
}
