package repository

import (
	"context"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
)

// WorkoutRepository stores append-only workout records.
// GetByID returns (nil, nil) when no row matches.
type WorkoutRepository interface {
	Insert(ctx context.Context, w *entity.Workout) error
	// ListByOwner returns the owner's records ordered by the client-supplied
	// "date" payload field, newest first, insertion order as tiebreak.
	ListByOwner(ctx context.Context, email string) ([]entity.Workout, error)
	GetByID(ctx context.Context, id string) (*entity.Workout, error)
}
