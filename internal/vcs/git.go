package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"shipkit/pkg/manifest"
)

// Puller updates a local checkout from its configured remote.
type Puller interface {
	Pull(ctx context.Context, src manifest.Source) (string, error)
}

// GitPuller implements the Puller interface using go-git.
type GitPuller struct{}

func NewGitPuller() *GitPuller {
	return &GitPuller{}
}

// Verify reports whether dir holds a git checkout. Used by preflight checks
// before any stage runs.
func Verify(dir string) error {
	if _, err := git.PlainOpen(dir); err != nil {
		return fmt.Errorf("not a git repository: %s: %w", dir, err)
	}
	return nil
}

// Pull fetches and merges the configured branch from the remote into the
// checkout at src.Dir. It returns the HEAD commit SHA after the pull, which
// is also the SHA when the checkout was already up to date.
func (p *GitPuller) Pull(ctx context.Context, src manifest.Source) (string, error) {
	slog.Info("Updating source checkout", "dir", src.Dir, "remote", src.Remote, "branch", src.Branch)

	repo, err := git.PlainOpen(src.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", src.Dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	pullOpts := &git.PullOptions{
		RemoteName:    src.Remote,
		ReferenceName: plumbing.NewBranchReferenceName(src.Branch),
		SingleBranch:  true,
	}

	// Token auth only applies to HTTP remotes; ssh and local remotes
	// authenticate through their own channels.
	if token := os.Getenv("GITLAB_PRIVATE_TOKEN"); token != "" && remoteUsesHTTP(repo, src.Remote) {
		pullOpts.Auth = &http.BasicAuth{
			Username: "oauth2", // GitLab uses oauth2 as username for token auth
			Password: token,
		}
	}

	err = worktree.PullContext(ctx, pullOpts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Checkout already up to date", "branch", src.Branch)
	} else if err != nil {
		return "", fmt.Errorf("failed to pull %s from %s: %w", src.Branch, src.Remote, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD after pull: %w", err)
	}

	slog.Info("Source checkout updated", "commit", head.Hash().String())
	return head.Hash().String(), nil
}

func remoteUsesHTTP(repo *git.Repository, name string) bool {
	remote, err := repo.Remote(name)
	if err != nil || len(remote.Config().URLs) == 0 {
		return false
	}
	url := remote.Config().URLs[0]
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
