package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shipkit/pkg/execx"
)

// Default lock file names used when the manifest does not name one.
const (
	DefaultPipenvLockFile = "Pipfile.lock"
	DefaultPipLockFile    = "requirements.txt"
)

// Installer synchronizes project dependencies from a lock file.
type Installer interface {
	Sync(ctx context.Context, dir string) error
}

// PipenvInstaller implements the Installer interface using pipenv.
type PipenvInstaller struct {
	runner   execx.Runner
	lockFile string
}

func NewPipenvInstaller(runner execx.Runner, lockFile string) *PipenvInstaller {
	if lockFile == "" {
		lockFile = DefaultPipenvLockFile
	}
	return &PipenvInstaller{runner: runner, lockFile: lockFile}
}

// Sync installs the locked dependency set. The --deploy flag makes pipenv
// abort when the lock file is stale instead of silently relocking.
func (i *PipenvInstaller) Sync(ctx context.Context, dir string) error {
	if err := checkLockFile(dir, i.lockFile); err != nil {
		return err
	}

	slog.Info("Syncing dependencies", "manager", "pipenv", "lockFile", i.lockFile, "dir", dir)

	cmd := execx.Command{
		Program: "pipenv",
		Args:    []string{"install", "--deploy"},
		Dir:     dir,
	}
	if err := i.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("pipenv install failed: %w", err)
	}

	return nil
}

// PipInstaller implements the Installer interface using plain pip.
type PipInstaller struct {
	runner   execx.Runner
	lockFile string
}

func NewPipInstaller(runner execx.Runner, lockFile string) *PipInstaller {
	if lockFile == "" {
		lockFile = DefaultPipLockFile
	}
	return &PipInstaller{runner: runner, lockFile: lockFile}
}

func (i *PipInstaller) Sync(ctx context.Context, dir string) error {
	if err := checkLockFile(dir, i.lockFile); err != nil {
		return err
	}

	slog.Info("Syncing dependencies", "manager", "pip", "lockFile", i.lockFile, "dir", dir)

	cmd := execx.Command{
		Program: "pip",
		Args:    []string{"install", "-r", i.lockFile},
		Dir:     dir,
	}
	if err := i.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("pip install failed: %w", err)
	}

	return nil
}

func checkLockFile(dir, lockFile string) error {
	path := filepath.Join(dir, lockFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("lock file not found: %s", path)
	}
	return nil
}
