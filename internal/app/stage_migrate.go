package app

import (
	"context"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/migrate"
)

// MigrateGenStage implements the Stage interface for migration generation
type MigrateGenStage struct {
	migrator migrate.Migrator
	dir      string
	label    string
}

// NewMigrateGenStage creates a new migration generation stage instance
func NewMigrateGenStage(migrator migrate.Migrator, dir, label string) *MigrateGenStage {
	return &MigrateGenStage{
		migrator: migrator,
		dir:      dir,
		label:    label,
	}
}

// Name returns the name of the stage
func (s *MigrateGenStage) Name() string {
	return string(StageMigrateGen)
}

// Title returns the progress line for the stage
func (s *MigrateGenStage) Title() string {
	return "Generating migration"
}

// Execute diffs the declared schema against migration history and writes a
// new migration script. Running this twice without upstream changes produces
// a second, possibly empty, migration artifact.
func (s *MigrateGenStage) Execute(ctx context.Context, state *ExecutionState) error {
	if err := s.migrator.Generate(ctx, s.dir, s.label); err != nil {
		return errors.NewMigrateError(
			"Failed to generate a migration script",
			err.Error(),
			"Inspect the migration tool output; the schema may be out of sync with migration history",
			err,
		)
	}

	slog.Info("Migration generation stage completed", "dir", s.dir)
	return nil
}

// MigrateApplyStage implements the Stage interface for migration apply
type MigrateApplyStage struct {
	migrator migrate.Migrator
	dir      string
}

// NewMigrateApplyStage creates a new migration apply stage instance
func NewMigrateApplyStage(migrator migrate.Migrator, dir string) *MigrateApplyStage {
	return &MigrateApplyStage{
		migrator: migrator,
		dir:      dir,
	}
}

// Name returns the name of the stage
func (s *MigrateApplyStage) Name() string {
	return string(StageMigrateApply)
}

// Title returns the progress line for the stage
func (s *MigrateApplyStage) Title() string {
	return "Applying migrations"
}

// Execute applies all pending migrations to the target database. Applied
// migrations are not rolled back when a later stage fails.
func (s *MigrateApplyStage) Execute(ctx context.Context, state *ExecutionState) error {
	if err := s.migrator.Apply(ctx, s.dir); err != nil {
		return errors.NewMigrateError(
			"Failed to apply pending migrations",
			err.Error(),
			"Check database connectivity and the migration tool output",
			err,
		)
	}

	slog.Info("Migration apply stage completed", "dir", s.dir)
	return nil
}
