// Package execx defines the command invocation contract shared by every
// pipeline backend that shells out to an external tool.
package execx

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Command describes a single external command invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string
}

// String renders the command line the way a shell user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// Runner defines the contract for executing external commands. Each step of
// the deploy pipeline that shells out does so through this interface, so
// tests can substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitCode extracts the process exit status carried by err. It returns 0 for
// nil, the invoked command's own exit code when the chain holds one, and 1 as
// the sentinel for failures that never produced an exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
