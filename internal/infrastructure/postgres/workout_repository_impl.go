package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
	"github.com/madinafit/fitness-backend/internal/domain/repository"
)

type WorkoutRepository struct {
	pool *pgxpool.Pool
}

func NewWorkoutRepository(pool *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

func (r *WorkoutRepository) Insert(ctx context.Context, w *entity.Workout) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workouts (owner_email, payload)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, w.OwnerEmail, w.Payload)

	return row.Scan(&w.ID, &w.CreatedAt)
}

func (r *WorkoutRepository) ListByOwner(ctx context.Context, email string) ([]entity.Workout, error) {
	// Client-supplied "date" strings sort lexicographically; newest first,
	// insertion order breaks ties.
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_email, payload, created_at
		FROM workouts
		WHERE owner_email = $1
		ORDER BY payload->>'date' DESC NULLS LAST, created_at ASC, id ASC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Workout
	for rows.Next() {
		var w entity.Workout
		if err := rows.Scan(&w.ID, &w.OwnerEmail, &w.Payload, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id string) (*entity.Workout, error) {
	w := &entity.Workout{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_email, payload, created_at
		FROM workouts
		WHERE id = $1
	`, id)
	if err := row.Scan(&w.ID, &w.OwnerEmail, &w.Payload, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

var _ repository.WorkoutRepository = (*WorkoutRepository)(nil)
