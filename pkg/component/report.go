package component

import (
	"errors"
	"fmt"
)

// PassKind names the operation a Report describes.
type PassKind string

const (
	PassBulk   PassKind = "bulk"
	PassSingle PassKind = "single"
)

// Report summarizes one discovery pass.
type Report struct {
	Kind PassKind `json:"kind"`

	// Discovered is the number of candidate nodes the pass looked at.
	Discovered int `json:"discovered"`

	// Initialized is the number of components constructed by the pass.
	Initialized int `json:"initialized"`

	// Skipped counts nodes already bound to a live component.
	Skipped int `json:"skipped"`

	// Aborted is set when a failure stopped the pass early.
	Aborted bool `json:"aborted"`

	// Errors holds the failures, in the order they happened.
	Errors []error `json:"-"`
}

// OK reports whether the pass had no failures.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Err joins all failures, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

// String returns a one-line summary.
func (r Report) String() string {
	s := fmt.Sprintf("%s pass: %d discovered, %d initialized, %d skipped, %d errors",
		r.Kind, r.Discovered, r.Initialized, r.Skipped, len(r.Errors))
	if r.Aborted {
		s += " (aborted)"
	}
	return s
}
