package cmd

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/benoctopus/devflow/internal/clock"
	"github.com/benoctopus/devflow/internal/config"
	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/display"
	"github.com/benoctopus/devflow/internal/git"
	"github.com/benoctopus/devflow/internal/logging"
	"github.com/benoctopus/devflow/internal/metrics"
	"github.com/benoctopus/devflow/internal/session"
	"github.com/benoctopus/devflow/internal/template"
	"github.com/benoctopus/devflow/internal/tty"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// appClock is the time source for every command
var appClock clock.Clock = clock.System{}

// app bundles what a command needs: config, store, engine and output
type app struct {
	cfg      *config.Config
	db       *sql.DB
	logger   zerolog.Logger
	sessions *session.Manager
	metrics  *metrics.Aggregator
	out      display.Printer
	errOut   display.Printer
}

// openApp resolves configuration, opens the store and builds the engine
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	tty.ConfigureColor(flagNoColor)

	if err := config.EnsureDBDir(cfg.DBPath); err != nil {
		return nil, err
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, eris.Wrap(err, "failed to initialize database")
	}
	if version, err := db.SchemaVersion(database); err == nil {
		logger.Debug().Str("path", cfg.DBPath).Int("schema", version).Msg("database ready")
	}

	opts := []session.Option{
		session.WithClock(appClock),
		session.WithLogger(logger),
		session.WithWorkingDir(os.Getwd),
	}
	if cfg.VCSStats {
		opts = append(opts, session.WithStatsProvider(git.NewStatsCollector()))
	} else {
		opts = append(opts, session.WithStatsProvider(nil))
	}

	manager, err := session.NewManager(database, opts...)
	if err != nil {
		database.Close()
		return nil, eris.Wrap(err, "failed to initialize session manager")
	}

	return &app{
		cfg:      cfg,
		db:       database,
		logger:   logger,
		sessions: manager,
		metrics:  metrics.NewAggregator(database, appClock),
		out:      display.New(cmd.OutOrStdout()),
		errOut:   display.New(cmd.ErrOrStderr()),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close database")
	}
}

// recoverable are engine outcomes reported to the user rather than failing the command
var recoverable = []error{
	session.ErrAlreadyActive,
	session.ErrNoActiveSession,
	session.ErrClockSkew,
	template.ErrDuplicateTemplate,
	template.ErrTemplateNotFound,
}

// handleEngineError prints recoverable engine errors as warnings and passes the rest through
func (a *app) handleEngineError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range recoverable {
		if eris.Is(err, target) {
			a.logger.Debug().Err(err).Msg("recoverable error")
			a.errOut.Warning(userMessage(err, target))
			return nil
		}
	}
	return err
}

func userMessage(err, target error) string {
	switch target {
	case session.ErrNoActiveSession:
		return "No active session found"
	case session.ErrClockSkew:
		return "The clock reads earlier than the session start; the session was left open"
	}
	return err.Error()
}

// workingProject returns the project named after the current directory,
// matching the default used by start
func workingProject() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Base(wd)
}
