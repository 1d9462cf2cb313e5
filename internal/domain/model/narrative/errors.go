package narrative

import (
	"errors"
	"fmt"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

// Common narrative errors
var (
	// ErrNotFound is returned when a narrative ID is unknown to the record store
	ErrNotFound = errors.New("narrative not found")

	// ErrInvalidState is returned when an operation is not valid for the
	// narrative's current status/step combination
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrInvalidOperation is returned when an operation is structurally
	// forbidden, e.g. deleting the sole generate version
	ErrInvalidOperation = errors.New("operation not permitted")

	// ErrVersionNotFound is returned when a version ID does not exist
	ErrVersionNotFound = errors.New("content version not found")
)

// BackendFailure is returned when the generation backend fails a step.
// It carries a human-readable message that is stored on the record.
type BackendFailure struct {
	Step    model.Step
	Message string
}

func (e *BackendFailure) Error() string {
	return fmt.Sprintf("generation backend failed at %s step: %s", e.Step, e.Message)
}

// NewBackendFailure wraps a backend error for a given step
func NewBackendFailure(step model.Step, err error) *BackendFailure {
	return &BackendFailure{Step: step, Message: err.Error()}
}
