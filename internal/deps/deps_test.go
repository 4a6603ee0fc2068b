package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shipkit/pkg/execx"
)

type recordingRunner struct {
	commands []execx.Command
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, cmd execx.Command) error {
	r.commands = append(r.commands, cmd)
	return r.err
}

func writeLockFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write lock file: %v", err)
	}
}

func TestPipenvInstaller_Sync(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, "Pipfile.lock")

	runner := &recordingRunner{}
	installer := NewPipenvInstaller(runner, "")

	if err := installer.Sync(context.Background(), dir); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if len(runner.commands) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(runner.commands))
	}

	cmd := runner.commands[0]
	if cmd.String() != "pipenv install --deploy" {
		t.Errorf("Unexpected command: %q", cmd.String())
	}
	if cmd.Dir != dir {
		t.Errorf("Command dir = %q, want %q", cmd.Dir, dir)
	}
}

func TestPipenvInstaller_Sync_MissingLockFile(t *testing.T) {
	dir := t.TempDir()

	runner := &recordingRunner{}
	installer := NewPipenvInstaller(runner, "")

	err := installer.Sync(context.Background(), dir)
	if err == nil {
		t.Fatal("Expected error for missing lock file, got nil")
	}
	if !strings.Contains(err.Error(), "lock file not found") {
		t.Errorf("Unexpected error message: %v", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("No command should run when the lock file is missing, got %d", len(runner.commands))
	}
}

func TestPipInstaller_Sync(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, "requirements.txt")

	runner := &recordingRunner{}
	installer := NewPipInstaller(runner, "")

	if err := installer.Sync(context.Background(), dir); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if len(runner.commands) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(runner.commands))
	}
	if got := runner.commands[0].String(); got != "pip install -r requirements.txt" {
		t.Errorf("Unexpected command: %q", got)
	}
}

func TestPipInstaller_Sync_CustomLockFile(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, "requirements-prod.txt")

	runner := &recordingRunner{}
	installer := NewPipInstaller(runner, "requirements-prod.txt")

	if err := installer.Sync(context.Background(), dir); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if got := runner.commands[0].String(); got != "pip install -r requirements-prod.txt" {
		t.Errorf("Unexpected command: %q", got)
	}
}

func TestPipenvInstaller_Sync_RunnerError(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, "Pipfile.lock")

	runner := &recordingRunner{err: errors.New("exit status 1")}
	installer := NewPipenvInstaller(runner, "")

	err := installer.Sync(context.Background(), dir)
	if err == nil {
		t.Fatal("Expected error when the command fails, got nil")
	}
	if !strings.Contains(err.Error(), "pipenv install failed") {
		t.Errorf("Unexpected error message: %v", err)
	}
}
