package execx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"shipkit/pkg/execx"
)

// LocalRunner implements the Runner interface by executing commands as child
// processes of shipkit itself.
type LocalRunner struct{}

// NewLocalRunner creates a new LocalRunner instance.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run starts the command and blocks until it exits. Stdout and stderr pass
// through to the parent process untouched, so the invoked tool's own output
// remains the diagnostic when it fails. The returned error keeps the child's
// exit status reachable through the error chain.
func (r *LocalRunner) Run(ctx context.Context, cmd execx.Command) error {
	if os.Getenv("SHIPKIT_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, "+ %s\n", cmd)
	}

	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if len(cmd.Env) > 0 {
		env := os.Environ()
		for key, value := range cmd.Env {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
		c.Env = env
	}

	slog.Info("Running external command", "command", cmd.String(), "dir", cmd.Dir)

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Program, err)
	}
	return nil
}
