package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benoctopus/devflow/internal/clock"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/dustin/go-humanize"
)

// Heatmap intensity characters
const (
	CellNone   = "░"
	CellLow    = "▒"
	CellMedium = "▓"
	CellHigh   = "█"
)

// FormatDuration renders seconds as "45s", "3m 20s" or "2h 5m"
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}

// FormatMinutes renders a minute count as "1h 30m"
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatHour renders an hour of the day as "09:00"
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Rule returns a horizontal line of the given width
func Rule(width int) string {
	if width < 1 {
		width = 1
	}
	return strings.Repeat("=", width)
}

// Intensity maps minutes coded in a day to a heatmap character
func Intensity(minutes int) string {
	switch {
	case minutes <= 0:
		return CellNone
	case minutes < 60:
		return CellLow
	case minutes < 180:
		return CellMedium
	default:
		return CellHigh
	}
}

// ProgressBar renders percent (0-100) as a bar of width cells
func ProgressBar(percent float64, width int) string {
	return Bar(percent, 100, width, CellNone)
}

// Bar renders value relative to max as a bar of width cells, padded with pad.
// Any positive value shows at least one filled cell.
func Bar(value, max float64, width int, pad string) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if max > 0 && value > 0 {
		filled = int(value / max * float64(width))
		if filled < 1 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}

	return strings.Repeat(CellHigh, filled) + strings.Repeat(pad, width-filled)
}

var dayLabels = [7]string{"Mon", "", "Wed", "", "Fri", "", "Sun"}

// Heatmap draws one column per week and one row per weekday (Monday first),
// ending with the week that contains end. Days after end are left blank.
func Heatmap(w io.Writer, totals map[string]int, end time.Time, weeks int) {
	if weeks < 1 {
		weeks = 1
	}

	end = clock.StartOfDay(end)
	offset := (int(end.Weekday()) + 6) % 7 // days since Monday
	start := end.AddDate(0, 0, -offset-7*(weeks-1))

	// Month labels sit above the first week of each month when they fit
	header := []byte(strings.Repeat(" ", 4+2*weeks+2))
	lastMonth := time.Month(0)
	nextFree := 0
	for col := 0; col < weeks; col++ {
		weekStart := start.AddDate(0, 0, 7*col)
		pos := 4 + 2*col
		if weekStart.Month() != lastMonth && pos >= nextFree {
			copy(header[pos:], weekStart.Format("Jan"))
			nextFree = pos + 4
		}
		lastMonth = weekStart.Month()
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(string(header), " "))

	for row := 0; row < 7; row++ {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-3s ", dayLabels[row]))
		for col := 0; col < weeks; col++ {
			day := start.AddDate(0, 0, 7*col+row)
			if day.After(end) {
				line.WriteString("  ")
				continue
			}
			line.WriteString(Intensity(totals[day.Format(models.DateLayout)]))
			line.WriteString(" ")
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	_, _ = fmt.Fprintf(w, "\nLegend: %s none  %s <1h  %s <3h  %s 3h+\n", CellNone, CellLow, CellMedium, CellHigh)
}
