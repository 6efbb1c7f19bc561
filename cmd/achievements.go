package cmd

import (
	"github.com/benoctopus/devflow/internal/achievement"
	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements [project]",
	Short: "List earned achievements",
	Long: `List earned achievements, newest first. With a project, badges that
project has not earned yet are listed as locked.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeProjects,
	RunE:              runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var project string
	if len(args) > 0 {
		project = args[0]
	}

	earned, err := a.sessions.Achievements().Earned(project)
	if err != nil {
		return err
	}

	if project != "" {
		a.out.Header("Achievements: " + project)
	} else {
		a.out.Header("Achievements")
	}

	if len(earned) == 0 {
		a.out.Info("No achievements yet")
	}

	have := make(map[string]bool, len(earned))
	for _, e := range earned {
		have[e.Name] = true
		if project != "" {
			a.out.Printf("%s %s  %s  %s\n", a.out.SuccessText("★"), a.out.Bold(e.Name), e.Description, a.out.Faint(e.EarnedDate))
		} else {
			a.out.Printf("%s %s  %s  %s\n", a.out.SuccessText("★"), a.out.Bold(e.Name), a.out.InfoText(e.ProjectName), a.out.Faint(e.EarnedDate))
		}
	}

	if project == "" {
		return nil
	}
	for _, rule := range achievement.Rules() {
		if have[rule.Name] {
			continue
		}
		a.out.Printf("%s %s  %s\n", a.out.Faint("☆"), a.out.Faint(rule.Name), a.out.Faint(rule.Description))
	}
	return nil
}
