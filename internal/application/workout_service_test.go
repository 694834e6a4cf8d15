package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madinafit/fitness-backend/pkg/apperrors"
)

func newWorkoutService(repo *fakeWorkoutRepo) *WorkoutService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewWorkoutService(repo, logger)
}

func TestSubmitRequiresOwnerEmail(t *testing.T) {
	svc := newWorkoutService(&fakeWorkoutRepo{})

	err := svc.Submit(context.Background(), map[string]any{"type": "run"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	err = svc.Submit(context.Background(), map[string]any{"ownerEmail": "", "type": "run"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSubmitAndList(t *testing.T) {
	repo := &fakeWorkoutRepo{}
	svc := newWorkoutService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, map[string]any{
		"ownerEmail": "a@x.com", "date": "2026-08-30", "type": "run",
	}))
	require.NoError(t, svc.Submit(ctx, map[string]any{
		"ownerEmail": "a@x.com", "date": "2026-08-31", "type": "swim",
	}))
	require.NoError(t, svc.Submit(ctx, map[string]any{
		"ownerEmail": "b@x.com", "date": "2026-09-01", "type": "row",
	}))

	items, err := svc.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// newest first by the client-supplied date field
	assert.Equal(t, "swim", items[0]["type"])
	assert.Equal(t, "run", items[1]["type"])

	for _, item := range items {
		assert.NotEmpty(t, item["id"], "server-assigned id exposed as string")
		assert.NotEmpty(t, item["createdAt"], "server-assigned creation timestamp")
		assert.NotContains(t, item, "_id")
		assert.NotContains(t, item, "ID")
	}
}

func TestListRequiresEmail(t *testing.T) {
	svc := newWorkoutService(&fakeWorkoutRepo{})
	_, err := svc.ListByOwner(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGetByID(t *testing.T) {
	repo := &fakeWorkoutRepo{}
	svc := newWorkoutService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, map[string]any{
		"ownerEmail": "a@x.com", "date": "2026-08-30", "type": "run",
	}))
	id := repo.workouts[0].ID

	item, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, item["id"])
	assert.Equal(t, "run", item["type"])

	_, err = svc.GetByID(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.GetByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
