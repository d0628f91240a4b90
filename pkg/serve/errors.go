package serve

import "github.com/pkg/errors"

var (
	// ErrEntryMustBeSet is returned when a python flow manifest does not
	// name the script to run.
	ErrEntryMustBeSet = errors.New("flow entry must be set for python flows")
)
