// Package export writes the activity history as JSON, CSV or YAML.
package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatCSV, FormatYAML}

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("unsupported export format: %q (use json, csv or yaml)", s)
	}
}

// FileName returns the export file name for a format at a point in time
func FileName(format Format, now time.Time) string {
	return "devflow_export_" + now.Format("20060102_150405") + "." + string(format)
}

// Session is a closed session as exported
type Session struct {
	ProjectName  string   `json:"project_name" yaml:"project_name"`
	ProjectPath  string   `json:"project_path" yaml:"project_path"`
	StartTime    string   `json:"start_time" yaml:"start_time"`
	EndTime      string   `json:"end_time" yaml:"end_time"`
	Duration     int64    `json:"duration" yaml:"duration"`
	FilesChanged int      `json:"files_changed" yaml:"files_changed"`
	LinesAdded   int      `json:"lines_added" yaml:"lines_added"`
	LinesRemoved int      `json:"lines_removed" yaml:"lines_removed"`
	Notes        []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Template is a template summary; file contents are not exported
type Template struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Files       int    `json:"files" yaml:"files"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

// Goal is a goal as exported
type Goal struct {
	GoalType    string `json:"goal_type" yaml:"goal_type"`
	Date        string `json:"date" yaml:"date"`
	TargetValue int    `json:"target_value" yaml:"target_value"`
}

// Activity is a per-day, per-project total
type Activity struct {
	Date         string `json:"date" yaml:"date"`
	ProjectName  string `json:"project_name" yaml:"project_name"`
	MinutesCoded int    `json:"minutes_coded" yaml:"minutes_coded"`
}

// Dataset is everything an export contains
type Dataset struct {
	Sessions  []Session  `json:"sessions" yaml:"sessions"`
	Templates []Template `json:"templates" yaml:"templates"`
	Goals     []Goal     `json:"goals" yaml:"goals"`
	Activity  []Activity `json:"activity" yaml:"activity"`
}

// Load reads closed sessions (newest first) with their notes and tags, plus
// templates, goals and activity
func Load(database *sql.DB) (*Dataset, error) {
	data := &Dataset{
		Sessions:  []Session{},
		Templates: []Template{},
		Goals:     []Goal{},
		Activity:  []Activity{},
	}

	sessions, err := db.GetClosedSessions(database)
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		record, err := sessionRecord(database, s)
		if err != nil {
			return nil, err
		}
		data.Sessions = append(data.Sessions, record)
	}

	templates, err := db.GetAllTemplates(database)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		data.Templates = append(data.Templates, Template{
			Name:        t.Name,
			Description: t.Description,
			Files:       len(t.Files),
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}

	goals, err := db.GetGoals(database)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		data.Goals = append(data.Goals, Goal{GoalType: g.GoalType, Date: g.Date, TargetValue: g.TargetValue})
	}

	activity, err := db.GetAllActivity(database)
	if err != nil {
		return nil, err
	}
	for _, a := range activity {
		data.Activity = append(data.Activity, Activity{Date: a.Date, ProjectName: a.ProjectName, MinutesCoded: a.MinutesCoded})
	}

	return data, nil
}

func sessionRecord(database *sql.DB, s *models.Session) (Session, error) {
	record := Session{
		ProjectName:  s.ProjectName,
		ProjectPath:  s.ProjectPath,
		StartTime:    s.StartTime.Format(time.RFC3339),
		Duration:     s.Duration,
		FilesChanged: s.FilesChanged,
		LinesAdded:   s.LinesAdded,
		LinesRemoved: s.LinesRemoved,
	}
	if s.EndTime != nil {
		record.EndTime = s.EndTime.Format(time.RFC3339)
	}

	notes, err := db.GetNotesBySession(database, s.ID)
	if err != nil {
		return Session{}, err
	}
	for _, n := range notes {
		record.Notes = append(record.Notes, n.Content)
	}

	tags, err := db.GetTagsBySession(database, s.ID)
	if err != nil {
		return Session{}, err
	}
	for _, t := range tags {
		record.Tags = append(record.Tags, t.Name)
	}

	return record, nil
}

// csvHeader is the column order of CSV exports
var csvHeader = []string{
	"project_name", "start_time", "end_time", "duration",
	"files_changed", "lines_added", "lines_removed",
}

// Write encodes data to w. CSV carries sessions only.
func Write(w io.Writer, format Format, data *Dataset) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return eris.Wrap(err, "failed to encode json export")
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return eris.Wrap(err, "failed to encode yaml export")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "failed to flush yaml export")
		}
		return nil

	case FormatCSV:
		return writeCSV(w, data.Sessions)

	default:
		return eris.Errorf("unsupported export format: %q", format)
	}
}

func writeCSV(w io.Writer, sessions []Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "failed to write csv header")
	}

	for _, s := range sessions {
		row := []string{
			s.ProjectName,
			s.StartTime,
			s.EndTime,
			strconv.FormatInt(s.Duration, 10),
			strconv.Itoa(s.FilesChanged),
			strconv.Itoa(s.LinesAdded),
			strconv.Itoa(s.LinesRemoved),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "failed to write csv row for %s", s.ProjectName)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "failed to flush csv export")
	}
	return nil
}
