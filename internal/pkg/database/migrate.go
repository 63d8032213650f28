package database

import (
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// Migrate applies all pending goose migrations found at the root of fsys.
func Migrate(db *sqlx.DB, fsys fs.FS) error {
	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	log.Info().Int64("version", version).Msg("Database migrations applied")
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}
