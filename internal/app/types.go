package app

import (
	"context"
)

// Stage is one step of the deploy pipeline. Name identifies the stage in the
// persisted execution state; Title is the human-readable progress line printed
// before the stage runs.
type Stage interface {
	Name() string
	Title() string
	Execute(ctx context.Context, state *ExecutionState) error
}
