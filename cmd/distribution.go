package cmd

import (
	"fmt"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/metrics"
	"github.com/spf13/cobra"
)

var distributionDays int

var distributionCmd = &cobra.Command{
	Use:   "distribution [project]",
	Short: "Show when you code, by hour of day",
	Long: `Show minutes coded per starting hour over the trailing window, with the
peak hour and the morning/afternoon/evening split.

Without a project every project is included.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeProjects,
	RunE:              runDistribution,
}

func init() {
	distributionCmd.Flags().IntVarP(&distributionDays, "days", "d", 0, "Number of days to include")
	rootCmd.AddCommand(distributionCmd)
}

func runDistribution(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var project string
	if len(args) > 0 {
		project = args[0]
	}
	days := resolveDays(distributionDays, a.cfg.DefaultDays)

	dist, err := a.metrics.TimeDistribution(project, days)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Time Distribution (Last %d days)", days)
	if project != "" {
		title = fmt.Sprintf("Time Distribution: %s (Last %d days)", project, days)
	}
	a.out.Header(title)

	summary := metrics.SummarizeDistribution(dist)
	if summary.PeakHour < 0 {
		a.out.Info("No completed sessions in this period")
		return nil
	}

	for hour := 0; hour < 24; hour++ {
		minutes, ok := dist[hour]
		if !ok {
			continue
		}
		a.out.Printf("%s %s %s\n",
			display.FormatHour(hour),
			display.Bar(float64(minutes), float64(summary.PeakMinutes), 30, " "),
			display.FormatMinutes(minutes))
	}

	a.out.Println()
	a.out.Field("Peak hour", display.FormatHour(summary.PeakHour))
	a.out.Field("Morning (06-12)", display.FormatMinutes(summary.Morning))
	a.out.Field("Afternoon (12-18)", display.FormatMinutes(summary.Afternoon))
	a.out.Field("Evening (18-24)", display.FormatMinutes(summary.Evening))
	return nil
}
