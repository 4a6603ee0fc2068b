package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"shipkit/pkg/execx"
)

// DefaultLabel is the revision message used when the manifest and the
// command line both leave the migration label empty.
const DefaultLabel = "Auto migration"

// Migrator generates and applies database schema migrations.
type Migrator interface {
	Generate(ctx context.Context, dir, label string) error
	Apply(ctx context.Context, dir string) error
}

// FlaskMigrator implements the Migrator interface using Flask-Migrate.
type FlaskMigrator struct {
	runner execx.Runner
	env    map[string]string
}

func NewFlaskMigrator(runner execx.Runner, env map[string]string) *FlaskMigrator {
	return &FlaskMigrator{runner: runner, env: env}
}

func (m *FlaskMigrator) Generate(ctx context.Context, dir, label string) error {
	if label == "" {
		label = DefaultLabel
	}

	slog.Info("Generating migration", "tool", "flask", "label", label, "dir", dir)

	cmd := execx.Command{
		Program: "flask",
		Args:    []string{"db", "migrate", "-m", label},
		Dir:     dir,
		Env:     m.env,
	}
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("flask db migrate failed: %w", err)
	}

	return nil
}

func (m *FlaskMigrator) Apply(ctx context.Context, dir string) error {
	slog.Info("Applying migrations", "tool", "flask", "dir", dir)

	cmd := execx.Command{
		Program: "flask",
		Args:    []string{"db", "upgrade"},
		Dir:     dir,
		Env:     m.env,
	}
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("flask db upgrade failed: %w", err)
	}

	return nil
}

// AlembicMigrator implements the Migrator interface using bare Alembic.
type AlembicMigrator struct {
	runner execx.Runner
	env    map[string]string
}

func NewAlembicMigrator(runner execx.Runner, env map[string]string) *AlembicMigrator {
	return &AlembicMigrator{runner: runner, env: env}
}

func (m *AlembicMigrator) Generate(ctx context.Context, dir, label string) error {
	if label == "" {
		label = DefaultLabel
	}

	slog.Info("Generating migration", "tool", "alembic", "label", label, "dir", dir)

	cmd := execx.Command{
		Program: "alembic",
		Args:    []string{"revision", "--autogenerate", "-m", label},
		Dir:     dir,
		Env:     m.env,
	}
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("alembic revision failed: %w", err)
	}

	return nil
}

func (m *AlembicMigrator) Apply(ctx context.Context, dir string) error {
	slog.Info("Applying migrations", "tool", "alembic", "dir", dir)

	cmd := execx.Command{
		Program: "alembic",
		Args:    []string{"upgrade", "head"},
		Dir:     dir,
		Env:     m.env,
	}
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("alembic upgrade failed: %w", err)
	}

	return nil
}
