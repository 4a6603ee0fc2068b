package app

import (
	"context"
	"log/slog"

	"shipkit/internal/deps"
	"shipkit/internal/errors"
)

// DepsStage implements the Stage interface for the dependency sync stage
type DepsStage struct {
	installer deps.Installer
	dir       string
}

// NewDepsStage creates a new dependency sync stage instance
func NewDepsStage(installer deps.Installer, dir string) *DepsStage {
	return &DepsStage{
		installer: installer,
		dir:       dir,
	}
}

// Name returns the name of the stage
func (s *DepsStage) Name() string {
	return string(StageDeps)
}

// Title returns the progress line for the stage
func (s *DepsStage) Title() string {
	return "Syncing dependencies"
}

// Execute installs the locked dependency set into the source directory.
func (s *DepsStage) Execute(ctx context.Context, state *ExecutionState) error {
	if err := s.installer.Sync(ctx, s.dir); err != nil {
		return errors.NewDepsError(
			"Failed to sync dependencies from the lock file",
			err.Error(),
			"Run the dependency manager manually in the source directory to inspect the failure",
			err,
		)
	}

	slog.Info("Dependency stage completed", "dir", s.dir)
	return nil
}
