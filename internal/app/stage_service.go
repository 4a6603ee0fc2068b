package app

import (
	"context"
	"log/slog"

	"shipkit/internal/errors"
	"shipkit/pkg/manifest"
)

// ServiceStage implements the Stage interface for the service restart stage
type ServiceStage struct {
	providerFactory *ProviderFactory
	svc             manifest.Service
}

// NewServiceStage creates a new service restart stage instance. The manager
// is created during Execute so that an unreachable Docker daemon fails this
// stage instead of the whole pipeline up front.
func NewServiceStage(providerFactory *ProviderFactory, svc manifest.Service) *ServiceStage {
	return &ServiceStage{
		providerFactory: providerFactory,
		svc:             svc,
	}
}

// Name returns the name of the stage
func (s *ServiceStage) Name() string {
	return string(StageService)
}

// Title returns the progress line for the stage
func (s *ServiceStage) Title() string {
	return "Restarting service"
}

// Execute asks the configured process supervisor to restart the service.
func (s *ServiceStage) Execute(ctx context.Context, state *ExecutionState) error {
	manager, err := s.providerFactory.GetServiceManager(&s.svc)
	if err != nil {
		return errors.NewServiceError(
			"Failed to initialize the service manager",
			err.Error(),
			"Check the service runtime in the manifest and that the runtime is reachable",
			err,
		)
	}

	if err := manager.Restart(ctx, s.svc.Name); err != nil {
		return errors.NewServiceError(
			"Failed to restart the service",
			err.Error(),
			"Check the service name and the supervisor logs",
			err,
		)
	}

	slog.Info("Service stage completed", "service", s.svc.Name, "runtime", s.svc.Runtime)
	return nil
}
