package app

import (
	"context"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/vcs"
	"shipkit/pkg/manifest"
)

// SourceStage implements the Stage interface for the source pull stage
type SourceStage struct {
	puller vcs.Puller
	src    manifest.Source
}

// NewSourceStage creates a new source stage instance
func NewSourceStage(puller vcs.Puller, src manifest.Source) *SourceStage {
	return &SourceStage{
		puller: puller,
		src:    src,
	}
}

// Name returns the name of the stage
func (s *SourceStage) Name() string {
	return string(StageSource)
}

// Title returns the progress line for the stage
func (s *SourceStage) Title() string {
	return "Pulling latest source"
}

// Execute pulls the configured branch and records the resulting HEAD commit
// in the execution state for the later stages.
func (s *SourceStage) Execute(ctx context.Context, state *ExecutionState) error {
	sha, err := s.puller.Pull(ctx, s.src)
	if err != nil {
		return errors.NewSourceError(
			"Failed to pull the latest source",
			err.Error(),
			"Check that the source directory is a git checkout and that the remote and branch exist",
			err,
		)
	}

	state.HeadSHA = sha
	slog.Info("Source stage completed", "commit", sha)
	return nil
}
