// Package streak maintains the consecutive-day coding streak.
//
// There is a single active streak shared by all projects. Closing a session on
// any project keeps it alive, and the previous day's activity on the closing
// project also counts as continuation.
package streak

import (
	"database/sql"
	"time"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Tracker applies the streak state machine against the store
type Tracker struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewTracker creates a tracker backed by the given database
func NewTracker(database *sql.DB, logger zerolog.Logger) *Tracker {
	return &Tracker{
		db:     database,
		logger: logger.With().Str("component", "streak").Logger(),
	}
}

// Update records activity for project on the calendar day of now and returns the
// resulting active streak. Activity for the day must already be stored.
func (t *Tracker) Update(project string, now time.Time) (*models.Streak, error) {
	today := now.Format(models.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)

	active, err := db.GetActiveStreak(t.db)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load active streak")
	}

	if active == nil {
		return t.start(today)
	}

	if active.EndDate == today {
		t.logger.Debug().Int("length", active.Length).Msg("streak already counted today")
		return active, nil
	}

	continues := active.EndDate == yesterday
	if !continues {
		continues, err = db.ActivityExists(t.db, yesterday, project)
		if err != nil {
			return nil, eris.Wrap(err, "failed to check yesterday's activity")
		}
	}

	if continues {
		if err := db.ExtendStreak(t.db, active.ID, today); err != nil {
			return nil, err
		}
		active.EndDate = today
		active.Length++
		t.logger.Debug().Int("length", active.Length).Str("project", project).Msg("streak extended")
		return active, nil
	}

	if err := db.DeactivateStreak(t.db, active.ID); err != nil {
		return nil, err
	}
	t.logger.Info().
		Int("length", active.Length).
		Str("end_date", active.EndDate).
		Msg("streak broken")

	return t.start(today)
}

func (t *Tracker) start(today string) (*models.Streak, error) {
	streak := &models.Streak{StartDate: today, EndDate: today, Length: 1}
	if err := db.CreateStreak(t.db, streak); err != nil {
		return nil, err
	}
	t.logger.Debug().Str("date", today).Msg("streak started")
	return streak, nil
}

// CurrentLength returns the length of the active streak, or 0 when none is active
func (t *Tracker) CurrentLength() (int, error) {
	active, err := db.GetActiveStreak(t.db)
	if err != nil {
		return 0, eris.Wrap(err, "failed to load active streak")
	}
	if active == nil {
		return 0, nil
	}
	return active.Length, nil
}

// Longest returns the greatest length over every streak, active or broken
func (t *Tracker) Longest() (int, error) {
	return db.GetMaxStreakLength(t.db)
}

// History returns every streak, most recent first
func (t *Tracker) History() ([]*models.Streak, error) {
	return db.GetAllStreaks(t.db)
}
