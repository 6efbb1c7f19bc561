package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
)

// ==================== Note and Tag Operations ====================

// CreateNote attaches a note to a session
func CreateNote(db *sql.DB, note *models.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	result, err := db.Exec(
		"INSERT INTO notes (session_id, content, created_at) VALUES (?, ?, ?)",
		note.SessionID, note.Content, note.CreatedAt.Unix(),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to insert note for session: %d", note.SessionID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	note.ID = int(id)
	return nil
}

// GetNotesBySession returns the notes of a session in insertion order
func GetNotesBySession(db *sql.DB, sessionID int) ([]*models.Note, error) {
	rows, err := db.Query(
		"SELECT id, session_id, content, created_at FROM notes WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query notes")
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		var createdAt int64
		if err := rows.Scan(&note.ID, &note.SessionID, &note.Content, &createdAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan note row")
		}
		note.CreatedAt = time.Unix(createdAt, 0)
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating note rows")
	}

	return notes, nil
}

// CreateTag attaches a tag to a session
func CreateTag(db *sql.DB, tag *models.Tag) error {
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}

	result, err := db.Exec(
		"INSERT INTO tags (session_id, name, created_at) VALUES (?, ?, ?)",
		tag.SessionID, tag.Name, tag.CreatedAt.Unix(),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to insert tag for session: %d", tag.SessionID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	tag.ID = int(id)
	return nil
}

// GetTagsBySession returns the tags of a session in insertion order
func GetTagsBySession(db *sql.DB, sessionID int) ([]*models.Tag, error) {
	rows, err := db.Query(
		"SELECT id, session_id, name, created_at FROM tags WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query tags")
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		var createdAt int64
		if err := rows.Scan(&tag.ID, &tag.SessionID, &tag.Name, &createdAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan tag row")
		}
		tag.CreatedAt = time.Unix(createdAt, 0)
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating tag rows")
	}

	return tags, nil
}

// ==================== Goal Operations ====================

// SetGoal stores the target for (goal type, date), replacing any previous target
func SetGoal(db *sql.DB, goal *models.Goal) error {
	_, err := db.Exec(
		`INSERT INTO goals (goal_type, target_value, date) VALUES (?, ?, ?)
		 ON CONFLICT(goal_type, date) DO UPDATE SET target_value = excluded.target_value`,
		goal.GoalType, goal.TargetValue, goal.Date,
	)
	if err != nil {
		return eris.Wrapf(err, "failed to set %s goal for %s", goal.GoalType, goal.Date)
	}
	return nil
}

// GetGoal returns the goal for (goal type, date), or nil if none is set
func GetGoal(db *sql.DB, goalType, date string) (*models.Goal, error) {
	goal := &models.Goal{}
	err := db.QueryRow(
		"SELECT id, goal_type, date, target_value, current_value, completed FROM goals WHERE goal_type = ? AND date = ?",
		goalType, date,
	).Scan(&goal.ID, &goal.GoalType, &goal.Date, &goal.TargetValue, &goal.CurrentValue, &goal.Completed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query goal")
	}

	return goal, nil
}

// GetGoals returns every goal, newest date first
func GetGoals(db *sql.DB) ([]*models.Goal, error) {
	rows, err := db.Query(
		"SELECT id, goal_type, date, target_value, current_value, completed FROM goals ORDER BY date DESC, goal_type",
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query goals")
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal := &models.Goal{}
		err := rows.Scan(&goal.ID, &goal.GoalType, &goal.Date, &goal.TargetValue, &goal.CurrentValue, &goal.Completed)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan goal row")
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating goal rows")
	}

	return goals, nil
}

// ==================== Template Operations ====================

// TemplateExists reports whether a template with the given name is stored
func TemplateExists(db *sql.DB, name string) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates WHERE name = ?", name).Scan(&count); err != nil {
		return false, eris.Wrapf(err, "failed to query template: %s", name)
	}
	return count > 0, nil
}

// CreateTemplate stores a new template; names are unique and templates are never overwritten
func CreateTemplate(db *sql.DB, template *models.Template) error {
	files, err := json.Marshal(template.Files)
	if err != nil {
		return eris.Wrap(err, "failed to encode template files")
	}

	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now()
	}

	result, err := db.Exec(
		"INSERT INTO templates (name, description, files, created_at) VALUES (?, ?, ?, ?)",
		template.Name, template.Description, string(files), template.CreatedAt.Unix(),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to insert template: %s", template.Name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	template.ID = int(id)
	return nil
}

// GetTemplate returns a template by name, or nil if it does not exist
func GetTemplate(db *sql.DB, name string) (*models.Template, error) {
	template, err := scanTemplate(db.QueryRow(
		"SELECT id, name, description, files, created_at FROM templates WHERE name = ?",
		name,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to query template: %s", name)
	}

	return template, nil
}

// GetAllTemplates returns every stored template ordered by name
func GetAllTemplates(db *sql.DB) ([]*models.Template, error) {
	rows, err := db.Query("SELECT id, name, description, files, created_at FROM templates ORDER BY name")
	if err != nil {
		return nil, eris.Wrap(err, "failed to query templates")
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan template row")
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating template rows")
	}

	return templates, nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	template := &models.Template{}
	var (
		files     string
		createdAt int64
	)

	if err := row.Scan(&template.ID, &template.Name, &template.Description, &files, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(files), &template.Files); err != nil {
		return nil, eris.Wrapf(err, "failed to decode files of template: %s", template.Name)
	}
	template.CreatedAt = time.Unix(createdAt, 0)

	return template, nil
}
