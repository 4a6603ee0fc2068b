package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"shipkit/internal/errors"
	localexec "shipkit/internal/execx"
	"shipkit/internal/parser"
	"shipkit/pkg/execx"
	"shipkit/pkg/manifest"
)

const (
	// Color codes for console output
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
)

// Deploy orchestrates the complete deployment pipeline using a stateful
// execution engine with resume capability. This is the Facade over all
// pipeline backends, wired to the real command runner and stdout.
func Deploy(manifestPath, migrationLabel string, isDryRun bool, retainState bool) error {
	return deploy(os.Stdout, localexec.NewLocalRunner(), manifestPath, migrationLabel, isDryRun, retainState)
}

// deploy runs the pipeline with an injected progress writer and command
// runner so tests can observe exactly what would be printed and executed.
func deploy(out io.Writer, runner execx.Runner, manifestPath, migrationLabel string, isDryRun bool, retainState bool) error {
	slog.Info("Starting shipkit deploy", "manifestPath", manifestPath, "dryRun", isDryRun)

	// Load existing state or create new state
	state, err := loadState()
	if err != nil {
		return errors.NewStateError(
			"Failed to load the execution state",
			err.Error(),
			fmt.Sprintf("Remove %s if it is corrupted and start a fresh run", StateFileName),
			err,
		)
	}

	var isResume bool
	if state == nil {
		// Fresh start - create new state
		runID := uuid.New().String()
		state = newState(manifestPath, runID)
		slog.Info("Starting new deploy run", "runId", runID, "manifestPath", manifestPath)
	} else {
		// Resume existing run
		isResume = true
		fmt.Fprintf(out, "%s📋 State file found. Resuming from stage: %s%s\n", ColorYellow, state.getNextStage(), ColorReset)
		slog.Info("Resuming deploy run", "runId", state.RunID, "nextStage", state.getNextStage(), "lastStage", state.LastSuccessfulStage)
	}

	if isDryRun {
		fmt.Fprintf(out, "%s🔍 DRY RUN MODE - no commands will be executed%s\n", ColorYellow, ColorReset)
		if isResume {
			fmt.Fprintf(out, "%s🔍 DRY RUN: Simulating resume from stage: %s%s\n", ColorYellow, state.getNextStage(), ColorReset)
		}
	}

	// Parse manifest (needed for all stages)
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	slog.Info("Manifest parsed", "name", m.Metadata.Name, "kind", m.Kind)

	factory := NewProviderFactory(runner)
	stages, err := buildStages(factory, m, migrationLabel)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for i, stage := range stages {
		if state.shouldSkipStage(ExecutionStage(stage.Name())) {
			fmt.Fprintf(out, "%s⏭️  Stage %d/%d: %s (skipped - already completed)%s\n", ColorGreen, i+1, len(stages), stage.Name(), ColorReset)
			continue
		}

		fmt.Fprintf(out, "%s🚀 Stage %d/%d: %s%s\n", ColorCyan, i+1, len(stages), stage.Title(), ColorReset)
		if isDryRun {
			continue
		}

		if err := stage.Execute(ctx, state); err != nil {
			return fmt.Errorf("%s stage failed: %w", stage.Name(), err)
		}

		// Update state after successful completion
		state.LastSuccessfulStage = ExecutionStage(stage.Name())
		if err := saveState(state); err != nil {
			return errors.NewStateError(
				fmt.Sprintf("Failed to save state after the %s stage", stage.Name()),
				err.Error(),
				"Check write permissions in the working directory",
				err,
			)
		}
	}

	// Mark the run as completed and clean up the state file
	state.LastSuccessfulStage = StageCompleted
	if !isDryRun {
		if retainState {
			// Save final state for auditing purposes
			if err := saveState(state); err != nil {
				slog.Warn("Failed to save final state", "error", err)
			} else {
				slog.Info("State file retained for auditing", "file", StateFileName)
			}
		} else {
			// Remove state file on successful completion
			if err := removeStateFile(); err != nil {
				slog.Warn("Failed to clean up state file", "error", err)
			}
		}
	}

	if isDryRun {
		fmt.Fprintf(out, "%s🎉 DRY RUN COMPLETED - all stages simulated%s\n", ColorGreen, ColorReset)
	} else {
		fmt.Fprintf(out, "%s🎉 Deployment complete%s\n", ColorGreen, ColorReset)
	}

	slog.Info("Deploy finished", "name", m.Metadata.Name, "dryRun", isDryRun)
	return nil
}

// loadManifest parses the manifest and classifies the failure so the CLI can
// suggest the right fix.
func loadManifest(manifestPath string) (*manifest.Manifest, error) {
	m, err := parser.Parse(manifestPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewManifestError(
				"Failed to locate the deployment manifest",
				err.Error(),
				"Run 'shipkit init' to generate a starter shipkit.yaml, or pass -f with the manifest path",
				err,
			)
		}
		return nil, errors.NewParseError(
			"Failed to parse the deployment manifest",
			err.Error(),
			"Fix the reported field in the manifest and re-run",
			err,
		)
	}
	return m, nil
}

// buildStages assembles the ordered stage list for a manifest. The record
// stage is appended only when the manifest carries an scm section.
func buildStages(factory *ProviderFactory, m *manifest.Manifest, migrationLabel string) ([]Stage, error) {
	installer, err := factory.GetInstaller(&m.Spec.Dependencies)
	if err != nil {
		return nil, err
	}
	migrator, err := factory.GetMigrator(&m.Spec.Migrations)
	if err != nil {
		return nil, err
	}

	// CLI flag wins over the manifest label; the migrator applies its own
	// default when both are empty.
	label := migrationLabel
	if label == "" {
		label = m.Spec.Migrations.Label
	}

	dir := m.Spec.Source.Dir
	stages := []Stage{
		NewSourceStage(factory.GetPuller(), m.Spec.Source),
		NewDepsStage(installer, dir),
		NewMigrateGenStage(migrator, dir, label),
		NewMigrateApplyStage(migrator, dir),
		NewServiceStage(factory, m.Spec.Service),
	}
	if m.Spec.SCM != nil {
		stages = append(stages, NewRecordStage(factory, m.Spec.SCM, m.Spec.Source.Branch))
	}
	return stages, nil
}
