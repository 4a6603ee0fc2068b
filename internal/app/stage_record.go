package app

import (
	"context"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/internal/scm"
	"shipkit/pkg/manifest"
)

// RecordStage implements the Stage interface for the deployment record stage.
// It only runs when the manifest carries an scm section.
type RecordStage struct {
	providerFactory *ProviderFactory
	scmCfg          *manifest.SCMProvider
	branch          string
}

// NewRecordStage creates a new deployment record stage instance
func NewRecordStage(providerFactory *ProviderFactory, scmCfg *manifest.SCMProvider, branch string) *RecordStage {
	return &RecordStage{
		providerFactory: providerFactory,
		scmCfg:          scmCfg,
		branch:          branch,
	}
}

// Name returns the name of the stage
func (s *RecordStage) Name() string {
	return string(StageRecord)
}

// Title returns the progress line for the stage
func (s *RecordStage) Title() string {
	return "Recording deployment"
}

// Execute creates a deployment record in the SCM provider using the commit
// SHA captured by the source stage.
func (s *RecordStage) Execute(ctx context.Context, state *ExecutionState) error {
	recorder, err := s.providerFactory.GetRecorder(s.scmCfg)
	if err != nil {
		return errors.NewRecordError(
			"Failed to initialize the SCM recorder",
			err.Error(),
			"Set GITLAB_PRIVATE_TOKEN and check the scm section of the manifest",
			err,
		)
	}

	deployment := scm.Deployment{
		Environment: s.scmCfg.Environment,
		Ref:         s.branch,
		SHA:         state.HeadSHA,
	}
	if err := recorder.Record(ctx, deployment); err != nil {
		return errors.NewRecordError(
			"Failed to record the deployment",
			err.Error(),
			"Check the SCM URL, project path and token permissions",
			err,
		)
	}

	slog.Info("Record stage completed", "environment", s.scmCfg.Environment, "sha", state.HeadSHA)
	return nil
}
