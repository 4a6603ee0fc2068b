package app

import (
	"fmt"

	"shipkit/internal/deps"
	"shipkit/internal/migrate"
	"shipkit/internal/scm"
	"shipkit/internal/service"
	"shipkit/internal/vcs"
	"shipkit/pkg/execx"
	"shipkit/pkg/manifest"
)

// ProviderFactory creates the pipeline backends from manifest configuration.
// This implements the Factory pattern to decouple the orchestrator from
// concrete implementations and lets tests substitute a fake command runner.
type ProviderFactory struct {
	runner execx.Runner
}

// NewProviderFactory creates a new instance of ProviderFactory. All backends
// that shell out share the given runner.
func NewProviderFactory(runner execx.Runner) *ProviderFactory {
	return &ProviderFactory{runner: runner}
}

// GetPuller returns the version control backend for the source stage.
func (f *ProviderFactory) GetPuller() vcs.Puller {
	return vcs.NewGitPuller()
}

// GetInstaller returns the dependency manager implementation named in the
// manifest configuration.
func (f *ProviderFactory) GetInstaller(spec *manifest.Dependencies) (deps.Installer, error) {
	switch spec.Manager {
	case "pipenv":
		return deps.NewPipenvInstaller(f.runner, spec.LockFile), nil
	case "pip":
		return deps.NewPipInstaller(f.runner, spec.LockFile), nil
	default:
		return nil, fmt.Errorf("unsupported dependency manager: %s", spec.Manager)
	}
}

// GetMigrator returns the migration tool implementation named in the
// manifest configuration.
func (f *ProviderFactory) GetMigrator(spec *manifest.Migrations) (migrate.Migrator, error) {
	switch spec.Tool {
	case "flask":
		return migrate.NewFlaskMigrator(f.runner, spec.Env), nil
	case "alembic":
		return migrate.NewAlembicMigrator(f.runner, spec.Env), nil
	default:
		return nil, fmt.Errorf("unsupported migration tool: %s", spec.Tool)
	}
}

// GetServiceManager returns the service restart backend named in the manifest
// configuration. The Docker backend connects to the daemon, so this is called
// from inside the service stage rather than up front.
func (f *ProviderFactory) GetServiceManager(spec *manifest.Service) (service.Manager, error) {
	switch spec.Runtime {
	case "systemd":
		return service.NewSystemdManager(f.runner, spec.Sudo), nil
	case "docker":
		manager, err := service.NewDockerManager()
		if err != nil {
			return nil, fmt.Errorf("failed to create Docker manager: %w", err)
		}
		return manager, nil
	default:
		return nil, fmt.Errorf("unsupported service runtime: %s", spec.Runtime)
	}
}

// GetRecorder returns the deployment recorder named in the manifest
// configuration.
func (f *ProviderFactory) GetRecorder(spec *manifest.SCMProvider) (scm.Recorder, error) {
	switch spec.Provider {
	case "gitlab":
		recorder, err := scm.NewGitLabRecorder(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitLab recorder: %w", err)
		}
		return recorder, nil
	default:
		return nil, fmt.Errorf("unsupported SCM provider: %s", spec.Provider)
	}
}
