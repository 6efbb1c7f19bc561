package db

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// InitDB opens the database, enables foreign keys and applies pending migrations
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open database: %s", dbPath)
	}

	// PRAGMAs are per connection; a single connection keeps them in effect
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to enable foreign keys")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to ping database")
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

// ==================== Session Operations ====================

const sessionColumns = `id, project_name, project_path, start_time, end_time, duration,
	files_changed, lines_added, lines_removed, active`

func scanSession(row rowScanner) (*models.Session, error) {
	session := &models.Session{}
	var (
		path     sql.NullString
		start    int64
		end      sql.NullInt64
		duration sql.NullInt64
	)

	err := row.Scan(
		&session.ID,
		&session.ProjectName,
		&path,
		&start,
		&end,
		&duration,
		&session.FilesChanged,
		&session.LinesAdded,
		&session.LinesRemoved,
		&session.Active,
	)
	if err != nil {
		return nil, err
	}

	session.ProjectPath = path.String
	session.StartTime = time.Unix(start, 0)
	if end.Valid {
		endTime := time.Unix(end.Int64, 0)
		session.EndTime = &endTime
	}
	session.Duration = duration.Int64

	return session, nil
}

// CreateSession inserts a new active session
func CreateSession(db *sql.DB, session *models.Session) error {
	var path sql.NullString
	if session.ProjectPath != "" {
		path = sql.NullString{String: session.ProjectPath, Valid: true}
	}

	result, err := db.Exec(
		"INSERT INTO sessions (project_name, project_path, start_time, active) VALUES (?, ?, ?, 1)",
		session.ProjectName, path, session.StartTime.Unix(),
	)
	if err != nil {
		return eris.Wrap(err, "failed to insert session")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	session.ID = int(id)
	session.Active = true
	return nil
}

// GetActiveSession returns the active session, or nil if none is active
func GetActiveSession(db *sql.DB) (*models.Session, error) {
	row := db.QueryRow(
		"SELECT " + sessionColumns + " FROM sessions WHERE active = 1 ORDER BY start_time DESC LIMIT 1",
	)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query active session")
	}

	return session, nil
}

// GetSession retrieves a session by ID
func GetSession(db *sql.DB, id int) (*models.Session, error) {
	row := db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(err, "session not found with id: %d", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query session")
	}

	return session, nil
}

// CloseSession records end time, duration and change counts and clears the active flag.
// Only an active session can be closed, so a session is mutated at most once.
func CloseSession(db *sql.DB, session *models.Session) error {
	if session.EndTime == nil {
		return eris.Errorf("session %d has no end time", session.ID)
	}

	result, err := db.Exec(
		`UPDATE sessions
		 SET end_time = ?, duration = ?, active = 0,
		     files_changed = ?, lines_added = ?, lines_removed = ?
		 WHERE id = ? AND active = 1`,
		session.EndTime.Unix(), session.Duration,
		session.FilesChanged, session.LinesAdded, session.LinesRemoved,
		session.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "failed to close session with id: %d", session.ID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "failed to get rows affected")
	}

	if rows == 0 {
		return eris.Errorf("no active session with id: %d", session.ID)
	}

	session.Active = false
	return nil
}

// CountSessionsByProject counts every session of a project, active or closed
func CountSessionsByProject(db *sql.DB, projectName string) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE project_name = ?", projectName).Scan(&count)
	if err != nil {
		return 0, eris.Wrapf(err, "failed to count sessions for project: %s", projectName)
	}
	return count, nil
}

// GetProjectNames returns every project that has a session, sorted by name
func GetProjectNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT DISTINCT project_name FROM sessions ORDER BY project_name")
	if err != nil {
		return nil, eris.Wrap(err, "failed to query project names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "failed to scan project name")
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating project names")
	}

	return names, nil
}

// GetClosedSessionsSince returns closed sessions that started at or after since.
// An empty projectName matches every project.
func GetClosedSessionsSince(db *sql.DB, projectName string, since time.Time) ([]*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE end_time IS NOT NULL AND start_time >= ?"
	args := []any{since.Unix()}
	if projectName != "" {
		query += " AND project_name = ?"
		args = append(args, projectName)
	}
	query += " ORDER BY start_time ASC"

	return querySessions(db, query, args...)
}

// GetAllClosedSessionsSince returns closed sessions of every project started at or after since
func GetAllClosedSessionsSince(db *sql.DB, since time.Time) ([]*models.Session, error) {
	return GetClosedSessionsSince(db, "", since)
}

// GetClosedSessions returns every closed session, newest first
func GetClosedSessions(db *sql.DB) ([]*models.Session, error) {
	return querySessions(
		db,
		"SELECT "+sessionColumns+" FROM sessions WHERE end_time IS NOT NULL ORDER BY start_time DESC",
	)
}

func querySessions(db *sql.DB, query string, args ...any) ([]*models.Session, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query sessions")
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan session row")
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating session rows")
	}

	return sessions, nil
}

// ==================== Activity Operations ====================

// AddActivityMinutes adds minutes to the (date, project) total, creating the row if needed
func AddActivityMinutes(db *sql.DB, date, projectName string, minutes int) error {
	_, err := db.Exec(
		`INSERT INTO activity (date, project_name, minutes_coded) VALUES (?, ?, ?)
		 ON CONFLICT(date, project_name) DO UPDATE SET minutes_coded = minutes_coded + excluded.minutes_coded`,
		date, projectName, minutes,
	)
	if err != nil {
		return eris.Wrapf(err, "failed to record activity for %s on %s", projectName, date)
	}
	return nil
}

// GetActivity returns the activity row for (date, project), or nil if there is none
func GetActivity(db *sql.DB, date, projectName string) (*models.ActivityDay, error) {
	day := &models.ActivityDay{}
	err := db.QueryRow(
		"SELECT date, project_name, minutes_coded FROM activity WHERE date = ? AND project_name = ?",
		date, projectName,
	).Scan(&day.Date, &day.ProjectName, &day.MinutesCoded)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query activity")
	}

	return day, nil
}

// ActivityExists reports whether any activity was recorded for (date, project)
func ActivityExists(db *sql.DB, date, projectName string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM activity WHERE date = ? AND project_name = ?",
		date, projectName,
	).Scan(&count)
	if err != nil {
		return false, eris.Wrap(err, "failed to query activity")
	}
	return count > 0, nil
}

// GetMinutesForDate sums coded minutes across all projects for a date
func GetMinutesForDate(db *sql.DB, date string) (int, error) {
	var minutes sql.NullInt64
	err := db.QueryRow("SELECT SUM(minutes_coded) FROM activity WHERE date = ?", date).Scan(&minutes)
	if err != nil {
		return 0, eris.Wrapf(err, "failed to sum activity for %s", date)
	}
	return int(minutes.Int64), nil
}

// GetDailyTotals returns date -> minutes across all projects for dates on or after sinceDate
func GetDailyTotals(db *sql.DB, sinceDate string) (map[string]int, error) {
	rows, err := db.Query(
		"SELECT date, SUM(minutes_coded) FROM activity WHERE date >= ? GROUP BY date",
		sinceDate,
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query daily totals")
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var (
			date    string
			minutes int
		)
		if err := rows.Scan(&date, &minutes); err != nil {
			return nil, eris.Wrap(err, "failed to scan daily total row")
		}
		totals[date] = minutes
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating daily total rows")
	}

	return totals, nil
}

// GetAllActivity returns every activity row, newest date first
func GetAllActivity(db *sql.DB) ([]*models.ActivityDay, error) {
	rows, err := db.Query("SELECT date, project_name, minutes_coded FROM activity ORDER BY date DESC, project_name")
	if err != nil {
		return nil, eris.Wrap(err, "failed to query activity")
	}
	defer rows.Close()

	var days []*models.ActivityDay
	for rows.Next() {
		day := &models.ActivityDay{}
		if err := rows.Scan(&day.Date, &day.ProjectName, &day.MinutesCoded); err != nil {
			return nil, eris.Wrap(err, "failed to scan activity row")
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating activity rows")
	}

	return days, nil
}

// ==================== Streak Operations ====================

const streakColumns = "id, start_date, end_date, length, active"

// GetActiveStreak returns the active streak, or nil if none is active
func GetActiveStreak(db *sql.DB) (*models.Streak, error) {
	streak := &models.Streak{}
	err := db.QueryRow(
		"SELECT "+streakColumns+" FROM streaks WHERE active = 1 LIMIT 1",
	).Scan(&streak.ID, &streak.StartDate, &streak.EndDate, &streak.Length, &streak.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query active streak")
	}

	return streak, nil
}

// CreateStreak inserts a new active streak
func CreateStreak(db *sql.DB, streak *models.Streak) error {
	result, err := db.Exec(
		"INSERT INTO streaks (start_date, end_date, length, active) VALUES (?, ?, ?, 1)",
		streak.StartDate, streak.EndDate, streak.Length,
	)
	if err != nil {
		return eris.Wrap(err, "failed to insert streak")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	streak.ID = int(id)
	streak.Active = true
	return nil
}

// ExtendStreak moves the end date of a streak forward and increments its length
func ExtendStreak(db *sql.DB, id int, endDate string) error {
	result, err := db.Exec(
		"UPDATE streaks SET end_date = ?, length = length + 1 WHERE id = ? AND active = 1",
		endDate, id,
	)
	if err != nil {
		return eris.Wrapf(err, "failed to extend streak with id: %d", id)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "failed to get rows affected")
	}

	if rows == 0 {
		return eris.Errorf("no active streak with id: %d", id)
	}

	return nil
}

// DeactivateStreak marks a streak as broken, keeping its dates and length
func DeactivateStreak(db *sql.DB, id int) error {
	_, err := db.Exec("UPDATE streaks SET active = 0 WHERE id = ?", id)
	if err != nil {
		return eris.Wrapf(err, "failed to deactivate streak with id: %d", id)
	}
	return nil
}

// GetMaxStreakLength returns the longest streak ever recorded, active or not
func GetMaxStreakLength(db *sql.DB) (int, error) {
	var length sql.NullInt64
	if err := db.QueryRow("SELECT MAX(length) FROM streaks").Scan(&length); err != nil {
		return 0, eris.Wrap(err, "failed to query longest streak")
	}
	return int(length.Int64), nil
}

// GetAllStreaks returns every streak, most recent first
func GetAllStreaks(db *sql.DB) ([]*models.Streak, error) {
	rows, err := db.Query("SELECT " + streakColumns + " FROM streaks ORDER BY id DESC")
	if err != nil {
		return nil, eris.Wrap(err, "failed to query streaks")
	}
	defer rows.Close()

	var streaks []*models.Streak
	for rows.Next() {
		streak := &models.Streak{}
		if err := rows.Scan(&streak.ID, &streak.StartDate, &streak.EndDate, &streak.Length, &streak.Active); err != nil {
			return nil, eris.Wrap(err, "failed to scan streak row")
		}
		streaks = append(streaks, streak)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating streak rows")
	}

	return streaks, nil
}

// ==================== Achievement Operations ====================

// InsertAchievementIfAbsent awards an achievement unless the (name, project) pair already exists.
// The lookup and insert share one transaction. Returns true when a row was inserted.
func InsertAchievementIfAbsent(db *sql.DB, achievement *models.Achievement) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, eris.Wrap(err, "failed to begin achievement transaction")
	}

	var count int
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM achievements WHERE name = ? AND project_name = ?",
		achievement.Name, achievement.ProjectName,
	).Scan(&count)
	if err != nil {
		//nolint:errcheck // Rollback in error path
		tx.Rollback()
		return false, eris.Wrap(err, "failed to query achievements")
	}

	if count > 0 {
		//nolint:errcheck // Read-only transaction
		tx.Rollback()
		return false, nil
	}

	result, err := tx.Exec(
		"INSERT INTO achievements (name, description, earned_date, project_name) VALUES (?, ?, ?, ?)",
		achievement.Name, achievement.Description, achievement.EarnedDate, achievement.ProjectName,
	)
	if err != nil {
		//nolint:errcheck // Rollback in error path
		tx.Rollback()
		return false, eris.Wrapf(err, "failed to insert achievement %q", achievement.Name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		//nolint:errcheck // Rollback in error path
		tx.Rollback()
		return false, eris.Wrap(err, "failed to get last insert id")
	}

	if err := tx.Commit(); err != nil {
		return false, eris.Wrap(err, "failed to commit achievement")
	}

	achievement.ID = int(id)
	return true, nil
}

// GetAchievements returns achievements newest first. An empty projectName matches every project.
func GetAchievements(db *sql.DB, projectName string) ([]*models.Achievement, error) {
	query := "SELECT id, name, description, earned_date, project_name FROM achievements"
	var args []any
	if projectName != "" {
		query += " WHERE project_name = ?"
		args = append(args, projectName)
	}
	query += " ORDER BY earned_date DESC, id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query achievements")
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.EarnedDate, &a.ProjectName); err != nil {
			return nil, eris.Wrap(err, "failed to scan achievement row")
		}
		achievements = append(achievements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating achievement rows")
	}

	return achievements, nil
}
