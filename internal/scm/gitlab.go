package scm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gitlab "github.com/xanzy/go-gitlab"

	"shipkit/pkg/manifest"
)

// Deployment describes a finished rollout for the provider's record.
type Deployment struct {
	Environment string
	Ref         string
	SHA         string
}

// Recorder records a finished deployment with the SCM provider.
type Recorder interface {
	Record(ctx context.Context, d Deployment) error
}

// GitLabRecorder implements the Recorder interface for GitLab.
type GitLabRecorder struct {
	client  *gitlab.Client
	project string
}

// NewGitLabRecorder creates a new GitLabRecorder with authentication.
func NewGitLabRecorder(cfg *manifest.SCMProvider) (*GitLabRecorder, error) {
	token := os.Getenv("GITLAB_PRIVATE_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITLAB_PRIVATE_TOKEN environment variable is required")
	}

	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(cfg.URL+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabRecorder{
		client:  client,
		project: cfg.Project,
	}, nil
}

// Record looks up the project and creates a successful deployment entry
// for the environment, pointing at the deployed commit.
func (g *GitLabRecorder) Record(ctx context.Context, d Deployment) error {
	slog.Info("Recording deployment", "project", g.project, "environment", d.Environment, "sha", d.SHA)

	project, _, err := g.client.Projects.GetProject(g.project, nil, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to look up project %s: %w", g.project, err)
	}

	status := gitlab.DeploymentStatusSuccess
	opts := &gitlab.CreateProjectDeploymentOptions{
		Environment: &d.Environment,
		Ref:         &d.Ref,
		SHA:         &d.SHA,
		Tag:         gitlab.Bool(false),
		Status:      &status,
	}

	deployment, _, err := g.client.Deployments.CreateProjectDeployment(project.ID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create deployment record: %w", err)
	}

	slog.Info("Deployment recorded", "id", deployment.ID, "environment", d.Environment)
	return nil
}
