package app

import (
	"os"
	"testing"
)

func TestExecutionState_ShouldSkipStage(t *testing.T) {
	tests := []struct {
		name      string
		lastStage ExecutionStage
		stage     ExecutionStage
		want      bool
	}{
		{"fresh state skips nothing", "", StageSource, false},
		{"completed stage is skipped", StageSource, StageSource, true},
		{"earlier stage is skipped", StageMigrateGen, StageDeps, true},
		{"next stage runs", StageSource, StageDeps, false},
		{"later stage runs", StageDeps, StageService, false},
		{"completed run skips everything", StageCompleted, StageRecord, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &ExecutionState{LastSuccessfulStage: tt.lastStage}
			if got := state.shouldSkipStage(tt.stage); got != tt.want {
				t.Errorf("shouldSkipStage(%s) with last=%q = %v, want %v", tt.stage, tt.lastStage, got, tt.want)
			}
		})
	}

	var nilState *ExecutionState
	if nilState.shouldSkipStage(StageSource) {
		t.Error("nil state should not skip any stage")
	}
}

func TestExecutionState_GetNextStage(t *testing.T) {
	tests := []struct {
		name      string
		lastStage ExecutionStage
		want      ExecutionStage
	}{
		{"fresh state starts at source", "", StageSource},
		{"after source comes deps", StageSource, StageDeps},
		{"after deps comes migrate-gen", StageDeps, StageMigrateGen},
		{"after migrate-gen comes migrate-apply", StageMigrateGen, StageMigrateApply},
		{"after migrate-apply comes service", StageMigrateApply, StageService},
		{"after service comes record", StageService, StageRecord},
		{"after record the run is completed", StageRecord, StageCompleted},
		{"completed stays completed", StageCompleted, StageCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &ExecutionState{LastSuccessfulStage: tt.lastStage}
			if got := state.getNextStage(); got != tt.want {
				t.Errorf("getNextStage() with last=%q = %s, want %s", tt.lastStage, got, tt.want)
			}
		})
	}
}

func TestStateFile_LoadSaveRemove(t *testing.T) {
	t.Chdir(t.TempDir())

	// Test loadState with no file
	state, err := loadState()
	if err != nil {
		t.Errorf("loadState should not error when file doesn't exist, got: %s", err)
	}
	if state != nil {
		t.Error("loadState should return nil when no state file exists")
	}

	// Test saveState
	testState := newState("shipkit.yaml", "test-run-id")
	testState.LastSuccessfulStage = StageDeps
	testState.HeadSHA = "abc123"

	if err := saveState(testState); err != nil {
		t.Fatalf("saveState failed: %s", err)
	}
	if _, err := os.Stat(StateFileName); os.IsNotExist(err) {
		t.Error("State file should exist after saveState")
	}

	// Test loadState with existing file
	loaded, err := loadState()
	if err != nil {
		t.Fatalf("loadState failed: %s", err)
	}
	if loaded == nil {
		t.Fatal("loadState should return state when file exists")
	}
	if loaded.RunID != "test-run-id" {
		t.Errorf("Expected RunID 'test-run-id', got: %s", loaded.RunID)
	}
	if loaded.LastSuccessfulStage != StageDeps {
		t.Errorf("Expected stage %s, got: %s", StageDeps, loaded.LastSuccessfulStage)
	}
	if loaded.HeadSHA != "abc123" {
		t.Errorf("Expected HeadSHA 'abc123', got: %s", loaded.HeadSHA)
	}

	// Test removeStateFile
	if err := removeStateFile(); err != nil {
		t.Fatalf("removeStateFile failed: %s", err)
	}
	if _, err := os.Stat(StateFileName); !os.IsNotExist(err) {
		t.Error("State file should be removed after removeStateFile")
	}

	// Test removeStateFile when file doesn't exist (should not error)
	if err := removeStateFile(); err != nil {
		t.Errorf("removeStateFile should not error when file doesn't exist, got: %s", err)
	}
}

func TestLoadState_Corrupted(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile(StateFileName, []byte("not json{"), 0644); err != nil {
		t.Fatalf("Failed to write corrupted state: %s", err)
	}

	if _, err := loadState(); err == nil {
		t.Error("Expected error for corrupted state file")
	}
}
