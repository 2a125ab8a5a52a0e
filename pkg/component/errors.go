package component

import (
	"fmt"

	abserrors "github.com/vango-dev/abs/internal/errors"
)

// Sentinels for errors.Is. They match any discovery failure of the same kind.
var (
	ErrMissingTag      error = abserrors.New("A001")
	ErrUnregisteredTag error = abserrors.New("A002")
)

// MissingTagError reports a node that matched the component attribute but
// carries no value for it.
type MissingTagError struct {
	Attribute string
	Node      string
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("component attribute %q has no value on %s", e.Attribute, e.Node)
}

// Unwrap exposes the coded error so errors.Is(err, ErrMissingTag) holds.
func (e *MissingTagError) Unwrap() error {
	return abserrors.New("A001").
		WithSubject(e.Node).
		WithSuggestion(fmt.Sprintf("set %s to a registered component tag", e.Attribute))
}

// UnregisteredTagError reports a node whose tag has no registered constructor.
type UnregisteredTagError struct {
	Tag  string
	Node string
}

func (e *UnregisteredTagError) Error() string {
	return fmt.Sprintf("component %q is not registered (%s)", e.Tag, e.Node)
}

// Unwrap exposes the coded error so errors.Is(err, ErrUnregisteredTag) holds.
func (e *UnregisteredTagError) Unwrap() error {
	return abserrors.New("A002").
		WithSubject(fmt.Sprintf("tag %q", e.Tag)).
		WithSuggestion(fmt.Sprintf("call Register(%q, ...) before initializing components", e.Tag))
}
