package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/KirkDiggler/lenslink/internal/models"
)

// localRepository implements Repository over the whole-list Local Store
type localRepository struct {
	store localstore.Store
}

// NewLocal wraps a Local Store in the Repository contract
func NewLocal(store localstore.Store) (*localRepository, error) {
	if store == nil {
		return nil, errors.New("local store cannot be nil")
	}

	return &localRepository{store: store}, nil
}

// GetAll returns the stored list sorted by date
func (r *localRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	sessions := r.store.ReadAll(ctx)
	models.SortByDate(sessions)

	return &GetAllOutput{Sessions: sessions}, nil
}

// Upsert replaces the session with the same ID, or places the new session
// ahead of the others before re-sorting
func (r *localRepository) Upsert(ctx context.Context, input *UpsertInput) error {
	if err := validateUpsert(input); err != nil {
		return err
	}

	current := r.store.ReadAll(ctx)
	next := make([]*models.Session, 0, len(current)+1)
	next = append(next, input.Session)
	for _, s := range current {
		if s.ID != input.Session.ID {
			next = append(next, s)
		}
	}
	models.SortByDate(next)

	if err := r.store.WriteAll(ctx, next); err != nil {
		return fmt.Errorf("failed to upsert session %s locally: %w", input.Session.ID, err)
	}

	return nil
}

// DeleteByID removes the session if present
func (r *localRepository) DeleteByID(ctx context.Context, input *DeleteByIDInput) error {
	if err := validateDelete(input); err != nil {
		return err
	}

	current := r.store.ReadAll(ctx)
	next := make([]*models.Session, 0, len(current))
	for _, s := range current {
		if s.ID != input.ID {
			next = append(next, s)
		}
	}

	if len(next) == len(current) {
		return nil
	}

	if err := r.store.WriteAll(ctx, next); err != nil {
		return fmt.Errorf("failed to delete session %s locally: %w", input.ID, err)
	}

	return nil
}
