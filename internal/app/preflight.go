package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shipkit/internal/deps"
	"shipkit/internal/errors"
	"shipkit/internal/service"
	"shipkit/internal/vcs"
)

// Preflight verifies the external collaborators a deploy would invoke without
// running any of them: the git checkout, the lock file, the tools on PATH,
// the Docker daemon and the SCM token. It reports every problem found in a
// single pass rather than stopping at the first.
func Preflight(manifestPath string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	var problems []string

	if err := vcs.Verify(m.Spec.Source.Dir); err != nil {
		problems = append(problems, err.Error())
	}

	lockFile := m.Spec.Dependencies.LockFile
	if lockFile == "" {
		switch m.Spec.Dependencies.Manager {
		case "pipenv":
			lockFile = deps.DefaultPipenvLockFile
		case "pip":
			lockFile = deps.DefaultPipLockFile
		}
	}
	lockPath := filepath.Join(m.Spec.Source.Dir, lockFile)
	if _, err := os.Stat(lockPath); err != nil {
		problems = append(problems, fmt.Sprintf("lock file not found: %s", lockPath))
	}

	tools := []string{m.Spec.Dependencies.Manager, m.Spec.Migrations.Tool}
	if m.Spec.Service.Runtime == "systemd" {
		tools = append(tools, "systemctl")
		if m.Spec.Service.Sudo {
			tools = append(tools, "sudo")
		}
	}
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			problems = append(problems, fmt.Sprintf("required tool not found in PATH: %s", tool))
		}
	}

	if m.Spec.Service.Runtime == "docker" {
		if _, err := service.NewDockerManager(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if m.Spec.SCM != nil && os.Getenv("GITLAB_PRIVATE_TOKEN") == "" {
		problems = append(problems, "GITLAB_PRIVATE_TOKEN is not set but the manifest has an scm section")
	}

	if len(problems) > 0 {
		return errors.NewPreflightError(
			"Preflight checks failed",
			strings.Join(problems, "; "),
			"Install the missing tools or fix the manifest before deploying",
			fmt.Errorf("preflight found %d problem(s)", len(problems)),
		)
	}

	slog.Info("Preflight checks passed", "manifest", manifestPath)
	return nil
}
