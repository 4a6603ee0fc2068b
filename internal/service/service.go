package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"shipkit/pkg/execx"
)

// Manager restarts a deployed service so it serves the new code.
type Manager interface {
	Restart(ctx context.Context, name string) error
}

// SystemdManager implements the Manager interface using systemctl.
type SystemdManager struct {
	runner execx.Runner
	sudo   bool
}

func NewSystemdManager(runner execx.Runner, sudo bool) *SystemdManager {
	return &SystemdManager{runner: runner, sudo: sudo}
}

func (m *SystemdManager) Restart(ctx context.Context, name string) error {
	slog.Info("Restarting service", "runtime", "systemd", "unit", name, "sudo", m.sudo)

	cmd := execx.Command{
		Program: "systemctl",
		Args:    []string{"restart", name},
	}
	if m.sudo {
		cmd = execx.Command{
			Program: "sudo",
			Args:    []string{"systemctl", "restart", name},
		}
	}

	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("systemctl restart %s failed: %w", name, err)
	}

	return nil
}

// ContainerClient is the subset of the Docker API needed to restart containers.
type ContainerClient interface {
	ContainerRestart(ctx context.Context, containerID string, options container.StopOptions) error
}

// DockerManager implements the Manager interface using the Docker API.
type DockerManager struct {
	client ContainerClient
}

// NewDockerManager creates a DockerManager connected to the local daemon.
func NewDockerManager() (*DockerManager, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Check if Docker daemon is accessible
	if _, err := dockerClient.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Docker daemon: %w", err)
	}

	return &DockerManager{client: dockerClient}, nil
}

// NewDockerManagerWithClient creates a DockerManager with an injected client.
func NewDockerManagerWithClient(containerClient ContainerClient) *DockerManager {
	return &DockerManager{client: containerClient}
}

func (m *DockerManager) Restart(ctx context.Context, name string) error {
	slog.Info("Restarting service", "runtime", "docker", "container", name)

	if err := m.client.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to restart container %s: %w", name, err)
	}

	return nil
}
