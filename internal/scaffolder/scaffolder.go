package scaffolder

import (
	"fmt"
	"os"
)

// DefaultFileName is the manifest name the init command writes.
const DefaultFileName = "shipkit.yaml"

const starterManifest = `apiVersion: v1
kind: Manifest
metadata:
  name: my-app
  description: Deployment pipeline for my-app
spec:
  # Local checkout that receives the pull. The branch is merged from the
  # remote into the current worktree, exactly like "git pull <remote> <branch>".
  source:
    dir: /srv/my-app
    remote: origin
    branch: main

  # Locked dependency sync. Supported managers: pipenv, pip.
  dependencies:
    manager: pipenv
    lockFile: Pipfile.lock

  # Schema migrations. Supported tools: flask, alembic.
  # The label becomes the revision message of generated migrations.
  migrations:
    tool: flask
    label: Auto migration
    env:
      FLASK_APP: app.py

  # Service to restart once migrations are applied.
  # Supported runtimes: systemd, docker.
  service:
    runtime: systemd
    name: my-app
    sudo: true

  # Uncomment to record each deploy in GitLab (requires GITLAB_PRIVATE_TOKEN).
  # scm:
  #   provider: gitlab
  #   url: https://gitlab.com
  #   project: group/my-app
  #   environment: production
`

// WriteStarter writes a commented starter manifest to path. An existing file
// is only overwritten when force is set.
func WriteStarter(path string, force bool) error {
	if path == "" {
		path = DefaultFileName
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(starterManifest), 0644); err != nil {
		return fmt.Errorf("failed to write starter manifest: %w", err)
	}

	return nil
}
