package models

import "time"

// DateLayout is the calendar-date format used for activity, streak, goal and achievement dates
const DateLayout = "2006-01-02"

// Session represents one bounded interval of tracked coding activity
type Session struct {
	ID           int        `json:"id"`
	ProjectName  string     `json:"project_name"`
	ProjectPath  string     `json:"project_path,omitempty"` // Empty when started with an explicit name only
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"` // Set once, on close
	Duration     int64      `json:"duration"`           // Seconds, set on close
	FilesChanged int        `json:"files_changed"`
	LinesAdded   int        `json:"lines_added"`
	LinesRemoved int        `json:"lines_removed"`
	Active       bool       `json:"active"`
}

// StartDate returns the local calendar date the session started on
func (s *Session) StartDate() string {
	return s.StartTime.Format(DateLayout)
}

// ActivityDay is the additive per-day, per-project total of coded minutes
type ActivityDay struct {
	Date         string `json:"date"`
	ProjectName  string `json:"project_name"`
	MinutesCoded int    `json:"minutes_coded"`
}

// Streak is a run of calendar days with qualifying activity
type Streak struct {
	ID        int    `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Length    int    `json:"length"`
	Active    bool   `json:"active"`
}

// Achievement is a one-time badge awarded to a project
type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EarnedDate  string `json:"earned_date"`
	ProjectName string `json:"project_name"`
}

// Note is free text attached to a session
type Note struct {
	ID        int       `json:"id"`
	SessionID int       `json:"session_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a label attached to a session
type Tag struct {
	ID        int       `json:"id"`
	SessionID int       `json:"session_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal is a per-date target in minutes for a goal type (e.g. "daily")
type Goal struct {
	ID           int    `json:"id"`
	GoalType     string `json:"goal_type"`
	Date         string `json:"date"`
	TargetValue  int    `json:"target_value"`
	CurrentValue int    `json:"current_value"`
	Completed    bool   `json:"completed"`
}

// Template is a named snapshot of a directory tree
type Template struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Files       map[string]string `json:"files"` // Relative path -> content
	CreatedAt   time.Time         `json:"created_at"`
}
