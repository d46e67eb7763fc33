package generation

import (
	"errors"
	"fmt"

	"sermon-studio/backend/internal/generation/dispatch"
	"sermon-studio/backend/internal/generation/response"
)

// ErrNotAuthenticated means no authenticated user was available at request
// time. It is raised before any network call is made.
var ErrNotAuthenticated = errors.New("user not authenticated")

// TransportError and EmptyGenerationError are re-exported from the packages
// that raise them so callers only deal with one error surface.
type (
	TransportError       = dispatch.TransportError
	EmptyGenerationError = response.EmptyGenerationError
)

// PersistenceError means the record store rejected an operation. Op is one of
// "create", "update" or "delete" so callers can surface distinct messages:
// a create failure after a successful generation loses the generated text.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s generation: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
