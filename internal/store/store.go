package store

import (
	"context"
	"errors"

	"sermon-studio/backend/internal/model"
)

// ErrNotFound is returned when an id does not exist or is owned by someone
// else. The two cases are deliberately indistinguishable to callers.
var ErrNotFound = errors.New("generation not found")

// GenerationStore abstracts the record store holding generations. Row-level
// ownership is enforced here: every operation is scoped to an owner.
type GenerationStore interface {
	// ListByOwner returns all of the owner's generations, newest first.
	ListByOwner(ctx context.Context, owner string) ([]model.Generation, error)
	// Insert persists a fully populated record and fills in its id and
	// timestamps.
	Insert(ctx context.Context, g *model.Generation) error
	// Update applies a partial edit and refreshes updated_at.
	Update(ctx context.Context, owner string, id string, upd model.GenerationUpdate) error
	// Delete removes a record permanently.
	Delete(ctx context.Context, owner string, id string) error
}
