// Package achievement awards one-time badges after a session closes.
package achievement

import (
	"database/sql"
	"time"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	FirstSteps    = "First Steps"
	MarathonCoder = "Marathon Coder"
	WeekWarrior   = "Week Warrior"
	EarlyBird     = "Early Bird"
	NightOwl      = "Night Owl"
)

const (
	marathonMinutes   = 240
	weekWarriorLength = 7
	earlyBirdHour     = 8
	nightOwlHour      = 22
)

// Facts is what the rules are evaluated against
type Facts struct {
	Project         string
	SessionMinutes  int
	SessionCount    int // All sessions of the project, active or closed
	MaxStreakLength int
	Now             time.Time
}

// Rule is a named condition over Facts
type Rule struct {
	Name        string
	Description string
	Match       func(Facts) bool
}

var rules = []Rule{
	{
		Name:        FirstSteps,
		Description: "Complete your first coding session on a project",
		Match:       func(f Facts) bool { return f.SessionCount == 1 },
	},
	{
		Name:        MarathonCoder,
		Description: "Code for 4 hours or more in a single session",
		Match:       func(f Facts) bool { return f.SessionMinutes >= marathonMinutes },
	},
	{
		Name:        WeekWarrior,
		Description: "Reach a 7-day coding streak",
		Match:       func(f Facts) bool { return f.MaxStreakLength >= weekWarriorLength },
	},
	{
		Name:        EarlyBird,
		Description: "Finish a session before 8am",
		Match:       func(f Facts) bool { return f.Now.Hour() < earlyBirdHour },
	},
	{
		Name:        NightOwl,
		Description: "Finish a session after 10pm",
		Match:       func(f Facts) bool { return f.Now.Hour() >= nightOwlHour },
	},
}

// Rules returns the achievement catalogue in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Evaluator checks the rules against stored history and records first-time awards
type Evaluator struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator backed by the given database
func NewEvaluator(database *sql.DB, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		db:     database,
		logger: logger.With().Str("component", "achievement").Logger(),
	}
}

// Evaluate runs every rule for a session of the given length on project and returns
// the achievements unlocked by this call. Re-evaluating the same inputs unlocks nothing.
func (e *Evaluator) Evaluate(project string, sessionMinutes int, now time.Time) ([]*models.Achievement, error) {
	count, err := db.CountSessionsByProject(e.db, project)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load session count")
	}

	longest, err := db.GetMaxStreakLength(e.db)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load longest streak")
	}

	facts := Facts{
		Project:         project,
		SessionMinutes:  sessionMinutes,
		SessionCount:    count,
		MaxStreakLength: longest,
		Now:             now,
	}

	var unlocked []*models.Achievement
	for _, rule := range rules {
		if !rule.Match(facts) {
			continue
		}

		a := &models.Achievement{
			Name:        rule.Name,
			Description: rule.Description,
			EarnedDate:  now.Format(models.DateLayout),
			ProjectName: project,
		}

		inserted, err := db.InsertAchievementIfAbsent(e.db, a)
		if err != nil {
			return unlocked, eris.Wrapf(err, "failed to award %q", rule.Name)
		}
		if !inserted {
			continue
		}

		e.logger.Info().Str("achievement", a.Name).Str("project", project).Msg("achievement unlocked")
		unlocked = append(unlocked, a)
	}

	return unlocked, nil
}

// Earned returns awarded achievements newest first; an empty project lists every project
func (e *Evaluator) Earned(project string) ([]*models.Achievement, error) {
	return db.GetAchievements(e.db, project)
}
