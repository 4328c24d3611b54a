package worktree

import (
	"errors"
	"fmt"
)

// Action is what reconciliation did, or tried to do, to a path.
type Action string

const (
	ActionRestored Action = "restored"
	ActionRemoved  Action = "removed"
	ActionSkipped  Action = "skipped" // tracked in the manifest but matched by an ignore rule
)

// Outcome records the result for one path. Err is nil on success.
type Outcome struct {
	Path   string
	Action Action
	Err    error
}

// Result collects per-path outcomes. Every path is attempted even after a failure.
type Result struct {
	Outcomes []Outcome
}

func (r *Result) record(path string, action Action, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Path: path, Action: action, Err: err})
}

// OK returns true when no path failed.
func (r *Result) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns the number of successful outcomes with the given action.
func (r *Result) Count(action Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action && o.Err == nil {
			n++
		}
	}
	return n
}

// Paths returns the paths that finished with the given action.
func (r *Result) Paths(action Action) []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Action == action && o.Err == nil {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Err joins every per-path failure, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s %s: %w", o.Action, o.Path, o.Err))
	}
	return errors.Join(errs...)
}
