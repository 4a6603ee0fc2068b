package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ExecutionStage represents the stages of the deploy pipeline
type ExecutionStage string

const (
	StageSource       ExecutionStage = "source"
	StageDeps         ExecutionStage = "deps"
	StageMigrateGen   ExecutionStage = "migrate-gen"
	StageMigrateApply ExecutionStage = "migrate-apply"
	StageService      ExecutionStage = "service"
	StageRecord       ExecutionStage = "record"
	StageCompleted    ExecutionStage = "completed"
)

// stageOrder lists the pipeline stages in execution order. The record stage
// only runs when the manifest has an scm section, but its position is fixed.
var stageOrder = []ExecutionStage{
	StageSource,
	StageDeps,
	StageMigrateGen,
	StageMigrateApply,
	StageService,
	StageRecord,
}

// ExecutionState represents the state of a shipkit deploy run
type ExecutionState struct {
	SchemaVersion       string         `json:"schema_version"`
	RunID               string         `json:"run_id"`
	LastSuccessfulStage ExecutionStage `json:"last_successful_stage"`
	ManifestPath        string         `json:"manifest_path"`
	HeadSHA             string         `json:"head_sha,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	LastUpdatedAt       time.Time      `json:"last_updated_at"`
}

const (
	StateFileName      = ".shipkit.state.json"
	StateSchemaVersion = "1.0"
)

// loadState attempts to load the execution state from the state file.
// Returns nil if the file doesn't exist (fresh start).
func loadState() (*ExecutionState, error) {
	if _, err := os.Stat(StateFileName); os.IsNotExist(err) {
		return nil, nil // Fresh start - no state file exists
	}

	data, err := os.ReadFile(StateFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state ExecutionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return &state, nil
}

// saveState persists the execution state to the state file.
func saveState(state *ExecutionState) error {
	state.LastUpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	if err := os.WriteFile(StateFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// newState creates a new execution state for a fresh run
func newState(manifestPath, runID string) *ExecutionState {
	now := time.Now()
	return &ExecutionState{
		SchemaVersion:       StateSchemaVersion,
		RunID:               runID,
		LastSuccessfulStage: "", // No stage completed yet
		ManifestPath:        manifestPath,
		CreatedAt:           now,
		LastUpdatedAt:       now,
	}
}

// stageIndex returns the position of a stage in the pipeline order, or -1
// for stages outside the pipeline (such as completed).
func stageIndex(stage ExecutionStage) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// shouldSkipStage determines if a stage should be skipped based on the current state
func (s *ExecutionState) shouldSkipStage(stage ExecutionStage) bool {
	if s == nil || s.LastSuccessfulStage == "" {
		return false // Fresh start, don't skip any stage
	}

	if s.LastSuccessfulStage == StageCompleted {
		return true
	}

	done := stageIndex(s.LastSuccessfulStage)
	idx := stageIndex(stage)
	return done >= 0 && idx >= 0 && idx <= done
}

// getNextStage returns the next stage to execute based on the current state
func (s *ExecutionState) getNextStage() ExecutionStage {
	if s == nil || s.LastSuccessfulStage == "" {
		return stageOrder[0]
	}

	if s.LastSuccessfulStage == StageCompleted {
		return StageCompleted
	}

	done := stageIndex(s.LastSuccessfulStage)
	if done < 0 || done+1 >= len(stageOrder) {
		return StageCompleted
	}

	return stageOrder[done+1]
}

// removeStateFile removes the state file after successful completion
func removeStateFile() error {
	if _, err := os.Stat(StateFileName); os.IsNotExist(err) {
		return nil // File doesn't exist, nothing to remove
	}

	if err := os.Remove(StateFileName); err != nil {
		return fmt.Errorf("failed to remove state file: %w", err)
	}

	return nil
}
