// Package session owns the active coding session and runs the close pipeline:
// session row, daily activity, streak, achievements.
package session

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/benoctopus/devflow/internal/achievement"
	"github.com/benoctopus/devflow/internal/clock"
	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/git"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/benoctopus/devflow/internal/streak"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyActive is returned by Start while another session is running
	ErrAlreadyActive = eris.New("a session is already active")

	// ErrNoActiveSession is returned by operations that need a running session
	ErrNoActiveSession = eris.New("no active session")

	// ErrClockSkew is returned by Stop when the clock reads earlier than the session start
	ErrClockSkew = eris.New("current time is before session start")
)

// StatsProvider reports the changes made under path since a point in time
type StatsProvider interface {
	Stats(path string, since time.Time) (git.Stats, error)
}

// StopResult describes a closed session and what closing it produced
type StopResult struct {
	Session      *models.Session
	Duration     time.Duration
	FilesChanged int
	LinesAdded   int
	LinesRemoved int
	StreakLength int
	Unlocked     []*models.Achievement
}

// Minutes returns the whole minutes credited to the day's activity
func (r *StopResult) Minutes() int {
	return int(r.Session.Duration / 60)
}

// Manager is the single owner of the active-session cursor
type Manager struct {
	db        *sql.DB
	clock     clock.Clock
	stats     StatsProvider
	wd        func() (string, error)
	logger    zerolog.Logger
	streaks   *streak.Tracker
	evaluator *achievement.Evaluator

	active *models.Session
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the time source
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithStatsProvider sets the VCS stats source; nil disables stats collection
func WithStatsProvider(p StatsProvider) Option {
	return func(m *Manager) { m.stats = p }
}

// WithWorkingDir sets the function used to resolve the default project location
func WithWorkingDir(wd func() (string, error)) Option {
	return func(m *Manager) { m.wd = wd }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager loads the active session from the store and returns a manager owning it
func NewManager(database *sql.DB, opts ...Option) (*Manager, error) {
	m := &Manager{
		db:     database,
		clock:  clock.System{},
		stats:  git.NewStatsCollector(),
		wd:     os.Getwd,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.streaks = streak.NewTracker(database, m.logger)
	m.evaluator = achievement.NewEvaluator(database, m.logger)
	m.logger = m.logger.With().Str("component", "session").Logger()

	active, err := db.GetActiveSession(database)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load active session")
	}
	m.active = active

	return m, nil
}

// Streaks returns the tracker shared with the close pipeline
func (m *Manager) Streaks() *streak.Tracker {
	return m.streaks
}

// Achievements returns the evaluator shared with the close pipeline
func (m *Manager) Achievements() *achievement.Evaluator {
	return m.evaluator
}

// Current returns the active session, or nil when idle
func (m *Manager) Current() *models.Session {
	return m.active
}

// Elapsed returns how long the active session has been running
func (m *Manager) Elapsed() (time.Duration, error) {
	if m.active == nil {
		return 0, ErrNoActiveSession
	}
	elapsed := m.clock.Now().Sub(m.active.StartTime)
	if elapsed < 0 {
		return 0, nil
	}
	return elapsed.Truncate(time.Second), nil
}

// Start opens a session for name at path. An empty name uses the working
// directory for both; a name without a path leaves the path unset.
func (m *Manager) Start(name, path string) (*models.Session, error) {
	if m.active != nil {
		return nil, eris.Wrapf(
			ErrAlreadyActive,
			"project %s started at %s",
			m.active.ProjectName,
			m.active.StartTime.Format(time.DateTime),
		)
	}

	if name == "" {
		wd, err := m.wd()
		if err != nil {
			return nil, eris.Wrap(err, "failed to resolve working directory")
		}
		name = filepath.Base(wd)
		if path == "" {
			path = wd
		}
	}

	session := &models.Session{
		ProjectName: name,
		ProjectPath: path,
		StartTime:   m.clock.Now().Truncate(time.Second),
	}

	if err := db.CreateSession(m.db, session); err != nil {
		return nil, err
	}

	m.active = session
	m.logger.Debug().Int("id", session.ID).Str("project", name).Str("path", path).Msg("session started")

	return session, nil
}

// Stop closes the active session and records its activity, streak and achievements
func (m *Manager) Stop() (*StopResult, error) {
	if m.active == nil {
		return nil, ErrNoActiveSession
	}

	session := m.active
	now := m.clock.Now().Truncate(time.Second)
	if now.Before(session.StartTime) {
		return nil, eris.Wrapf(
			ErrClockSkew,
			"now %s, started %s",
			now.Format(time.DateTime),
			session.StartTime.Format(time.DateTime),
		)
	}

	stats := m.collectStats(session)

	session.EndTime = &now
	session.Duration = int64(now.Sub(session.StartTime) / time.Second)
	session.FilesChanged = stats.FilesChanged
	session.LinesAdded = stats.LinesAdded
	session.LinesRemoved = stats.LinesRemoved

	if err := db.CloseSession(m.db, session); err != nil {
		session.EndTime = nil
		return nil, err
	}
	// The row is closed; the cursor must not outlive it even if a later step fails
	m.active = nil

	minutes := int(session.Duration / 60)
	if err := db.AddActivityMinutes(m.db, session.StartDate(), session.ProjectName, minutes); err != nil {
		return nil, err
	}

	current, err := m.streaks.Update(session.ProjectName, now)
	if err != nil {
		return nil, eris.Wrap(err, "failed to update streak")
	}

	unlocked, err := m.evaluator.Evaluate(session.ProjectName, minutes, now)
	if err != nil {
		return nil, eris.Wrap(err, "failed to evaluate achievements")
	}

	m.logger.Debug().
		Int("id", session.ID).
		Int64("duration", session.Duration).
		Int("streak", current.Length).
		Int("unlocked", len(unlocked)).
		Msg("session stopped")

	return &StopResult{
		Session:      session,
		Duration:     time.Duration(session.Duration) * time.Second,
		FilesChanged: session.FilesChanged,
		LinesAdded:   session.LinesAdded,
		LinesRemoved: session.LinesRemoved,
		StreakLength: current.Length,
		Unlocked:     unlocked,
	}, nil
}

func (m *Manager) collectStats(session *models.Session) git.Stats {
	if m.stats == nil || session.ProjectPath == "" {
		return git.Stats{}
	}

	stats, err := m.stats.Stats(session.ProjectPath, session.StartTime)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", session.ProjectPath).Msg("could not collect change stats")
		return git.Stats{}
	}
	return stats
}

// AddNote attaches a note to the active session
func (m *Manager) AddNote(content string) (*models.Note, error) {
	if m.active == nil {
		return nil, ErrNoActiveSession
	}

	note := &models.Note{SessionID: m.active.ID, Content: content, CreatedAt: m.clock.Now()}
	if err := db.CreateNote(m.db, note); err != nil {
		return nil, err
	}
	return note, nil
}

// AddTag attaches a tag to the active session
func (m *Manager) AddTag(name string) (*models.Tag, error) {
	if m.active == nil {
		return nil, ErrNoActiveSession
	}

	tag := &models.Tag{SessionID: m.active.ID, Name: name, CreatedAt: m.clock.Now()}
	if err := db.CreateTag(m.db, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
