// Package metrics computes read-only productivity figures from closed sessions.
// Nothing here reads or changes the active session.
package metrics

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/benoctopus/devflow/internal/clock"
	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
)

const (
	// LeaderboardSize is the maximum number of projects on the leaderboard
	LeaderboardSize = 10

	// GoalDaily is the goal type tracked against minutes coded per day
	GoalDaily = "daily"
)

// ProjectStats aggregates the closed sessions of one project
type ProjectStats struct {
	Project        string `json:"project" yaml:"project"`
	Sessions       int    `json:"sessions" yaml:"sessions"`
	TotalSeconds   int64  `json:"total_seconds" yaml:"total_seconds"`
	AverageSeconds int64  `json:"average_seconds" yaml:"average_seconds"`
	FilesChanged   int    `json:"files_changed" yaml:"files_changed"`
	LinesAdded     int    `json:"lines_added" yaml:"lines_added"`
	LinesRemoved   int    `json:"lines_removed" yaml:"lines_removed"`
}

// Summary is the trailing-week report for a project
type Summary struct {
	ProjectStats
	Days              int     `json:"days" yaml:"days"`
	ProductivityScore float64 `json:"productivity_score" yaml:"productivity_score"`
	StreakLength      int     `json:"streak_length" yaml:"streak_length"`
}

// DistributionSummary condenses an hourly distribution
type DistributionSummary struct {
	PeakHour    int // -1 when there is no activity
	PeakMinutes int
	Morning     int // 06:00-12:00
	Afternoon   int // 12:00-18:00
	Evening     int // 18:00-24:00
}

// GoalStatus compares the daily goal with minutes coded across every project
type GoalStatus struct {
	Date          string
	Set           bool
	TargetMinutes int
	CodedMinutes  int
	Percent       float64
}

// Aggregator runs the metrics queries
type Aggregator struct {
	db    *sql.DB
	clock clock.Clock
}

// NewAggregator creates an aggregator; a nil clock uses the system clock
func NewAggregator(database *sql.DB, c clock.Clock) *Aggregator {
	if c == nil {
		c = clock.System{}
	}
	return &Aggregator{db: database, clock: c}
}

// WindowStart returns local midnight of the day `days` days before today
func (a *Aggregator) WindowStart(days int) time.Time {
	return clock.StartOfDay(a.clock.Now()).AddDate(0, 0, -days)
}

func (a *Aggregator) sessions(project string, days int) ([]*models.Session, error) {
	var (
		sessions []*models.Session
		err      error
	)
	if project == "" {
		sessions, err = db.GetAllClosedSessionsSince(a.db, a.WindowStart(days))
	} else {
		sessions, err = db.GetClosedSessionsSince(a.db, project, a.WindowStart(days))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load sessions for the last %d days", days)
	}
	return sessions, nil
}

// ProductivityScore is the share of a days×60-minute budget actually coded on
// project, capped at 100 and rounded to one decimal
func (a *Aggregator) ProductivityScore(project string, days int) (float64, error) {
	if days <= 0 {
		return 0, nil
	}

	sessions, err := a.sessions(project, days)
	if err != nil {
		return 0, err
	}

	return score(totalSeconds(sessions), days), nil
}

func score(seconds int64, days int) float64 {
	if days <= 0 {
		return 0
	}
	minutes := float64(seconds) / 60
	pct := math.Min(100, minutes/float64(days*60)*100)
	return math.Round(pct*10) / 10
}

func totalSeconds(sessions []*models.Session) int64 {
	var total int64
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

// WeeklySummary reports the trailing seven days of project
func (a *Aggregator) WeeklySummary(project string) (*Summary, error) {
	const days = 7

	sessions, err := a.sessions(project, days)
	if err != nil {
		return nil, err
	}

	streak, err := db.GetActiveStreak(a.db)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load active streak")
	}

	summary := &Summary{
		ProjectStats:      aggregate(project, sessions),
		Days:              days,
		ProductivityScore: score(totalSeconds(sessions), days),
	}
	if streak != nil {
		summary.StreakLength = streak.Length
	}

	return summary, nil
}

func aggregate(project string, sessions []*models.Session) ProjectStats {
	stats := ProjectStats{Project: project}
	for _, s := range sessions {
		stats.Sessions++
		stats.TotalSeconds += s.Duration
		stats.FilesChanged += s.FilesChanged
		stats.LinesAdded += s.LinesAdded
		stats.LinesRemoved += s.LinesRemoved
	}
	if stats.Sessions > 0 {
		stats.AverageSeconds = stats.TotalSeconds / int64(stats.Sessions)
	}
	return stats
}

// Leaderboard ranks projects by total coded time in the trailing window
func (a *Aggregator) Leaderboard(days int) ([]ProjectStats, error) {
	sessions, err := a.sessions("", days)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]*models.Session)
	for _, s := range sessions {
		byProject[s.ProjectName] = append(byProject[s.ProjectName], s)
	}

	board := make([]ProjectStats, 0, len(byProject))
	for project, projectSessions := range byProject {
		board = append(board, aggregate(project, projectSessions))
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].TotalSeconds != board[j].TotalSeconds {
			return board[i].TotalSeconds > board[j].TotalSeconds
		}
		return board[i].Project < board[j].Project
	})

	if len(board) > LeaderboardSize {
		board = board[:LeaderboardSize]
	}
	return board, nil
}

// Totals aggregates every project in the trailing window
func (a *Aggregator) Totals(days int) (ProjectStats, error) {
	sessions, err := a.sessions("", days)
	if err != nil {
		return ProjectStats{}, err
	}
	return aggregate("", sessions), nil
}

// TimeDistribution maps local start hour (0-23) to minutes coded on project.
// An empty project covers every project. Hours without activity are absent.
func (a *Aggregator) TimeDistribution(project string, days int) (map[int]int, error) {
	sessions, err := a.sessions(project, days)
	if err != nil {
		return nil, err
	}

	seconds := make(map[int]int64)
	for _, s := range sessions {
		seconds[s.StartTime.Hour()] += s.Duration
	}

	dist := make(map[int]int, len(seconds))
	for hour, secs := range seconds {
		dist[hour] = int(secs / 60)
	}
	return dist, nil
}

// SummarizeDistribution finds the peak hour and the per-period totals
func SummarizeDistribution(dist map[int]int) DistributionSummary {
	summary := DistributionSummary{PeakHour: -1}

	for hour := 0; hour < 24; hour++ {
		minutes := dist[hour]
		if minutes > summary.PeakMinutes {
			summary.PeakHour = hour
			summary.PeakMinutes = minutes
		}

		switch {
		case hour >= 6 && hour < 12:
			summary.Morning += minutes
		case hour >= 12 && hour < 18:
			summary.Afternoon += minutes
		case hour >= 18:
			summary.Evening += minutes
		}
	}

	return summary
}

// GoalProgress reports the daily goal for date against minutes coded that day
func (a *Aggregator) GoalProgress(date string) (*GoalStatus, error) {
	status := &GoalStatus{Date: date}

	coded, err := db.GetMinutesForDate(a.db, date)
	if err != nil {
		return nil, err
	}
	status.CodedMinutes = coded

	goal, err := db.GetGoal(a.db, GoalDaily, date)
	if err != nil {
		return nil, err
	}
	if goal == nil || goal.TargetValue <= 0 {
		return status, nil
	}

	status.Set = true
	status.TargetMinutes = goal.TargetValue
	status.Percent = math.Min(100, float64(coded)/float64(goal.TargetValue)*100)

	return status, nil
}

// Today returns the current local date
func (a *Aggregator) Today() string {
	return a.clock.Now().Format(models.DateLayout)
}

// DailyTotals returns date -> minutes across projects for the trailing weeks
func (a *Aggregator) DailyTotals(weeks int) (map[string]int, error) {
	since := a.WindowStart(weeks * 7).Format(models.DateLayout)
	totals, err := db.GetDailyTotals(a.db, since)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load activity for the last %d weeks", weeks)
	}
	return totals, nil
}
