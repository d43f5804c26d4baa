package resolver

import (
	"errors"
	"fmt"

	"github.com/roach88/relmap/internal/ir"
)

// RegistryError reports a failed registry switch.
//
// Lookup misses are never errors; a failed switch is, because afterwards
// the active registry is not the one the caller expects. After a failed
// "restore" the target is still active. After a failed "switch" the
// source is active and the target has been popped; the caller must
// switch to the target again before writing to it.
type RegistryError struct {
	// Op is "restore" or "switch".
	Op string

	// Registry is the registry that was active (restore) or requested (switch).
	Registry ir.RegistryHandle

	Err error
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s (registry=%s): %v", e.Op, e.Registry, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// IsRegistryError returns true if err is or wraps a RegistryError.
func IsRegistryError(err error) bool {
	var re *RegistryError
	return errors.As(err, &re)
}

// ErrMissingCollaborator is returned by New when a required service is nil.
var ErrMissingCollaborator = errors.New("missing collaborator")
