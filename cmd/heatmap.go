package cmd

import (
	"fmt"

	"github.com/benoctopus/devflow/internal/display"
	"github.com/spf13/cobra"
)

var heatmapWeeks int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show daily activity as a heatmap",
	Args:  cobra.NoArgs,
	RunE:  runHeatmap,
}

func init() {
	heatmapCmd.Flags().IntVarP(&heatmapWeeks, "weeks", "w", 0, "Number of weeks to show")
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	weeks := resolveDays(heatmapWeeks, a.cfg.HeatmapWeeks)

	totals, err := a.metrics.DailyTotals(weeks)
	if err != nil {
		return err
	}

	a.out.Header(fmt.Sprintf("Activity Heatmap (Last %d weeks)", weeks))
	display.Heatmap(a.out.Writer(), totals, appClock.Now(), weeks)
	return nil
}
