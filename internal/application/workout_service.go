package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
	"github.com/madinafit/fitness-backend/internal/domain/repository"
	"github.com/madinafit/fitness-backend/pkg/apperrors"
)

// WorkoutService stores and retrieves immutable workout records. Payloads are
// kept verbatim; the server adds only the id and creation timestamp.
type WorkoutService struct {
	Repo   repository.WorkoutRepository
	Logger *logrus.Logger
}

func NewWorkoutService(repo repository.WorkoutRepository, logger *logrus.Logger) *WorkoutService {
	return &WorkoutService{Repo: repo, Logger: logger}
}

// Submit stores the payload under its ownerEmail field. No schema validation
// is applied beyond the owner being present.
func (s *WorkoutService) Submit(ctx context.Context, payload map[string]any) error {
	owner, _ := payload["ownerEmail"].(string)
	if owner == "" {
		return apperrors.Validation("ownerEmail is required")
	}
	w := &entity.Workout{OwnerEmail: owner, Payload: payload}
	if err := s.Repo.Insert(ctx, w); err != nil {
		return s.internal("workout insert failed", err, owner)
	}
	return nil
}

// ListByOwner returns the owner's records newest first by their client-set
// date field.
func (s *WorkoutService) ListByOwner(ctx context.Context, email string) ([]map[string]any, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	items, err := s.Repo.ListByOwner(ctx, email)
	if err != nil {
		return nil, s.internal("workout list failed", err, email)
	}
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, items[i].Document())
	}
	return out, nil
}

// GetByID returns one record in the same shape as list items.
func (s *WorkoutService) GetByID(ctx context.Context, id string) (map[string]any, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validation("invalid id")
	}
	w, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal("workout get failed", err, id)
	}
	if w == nil {
		return nil, apperrors.NotFound("workout not found")
	}
	return w.Document(), nil
}

func (s *WorkoutService) internal(msg string, err error, subject string) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("subject", subject).Error(msg)
	}
	return apperrors.Internal(err)
}
