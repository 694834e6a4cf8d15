package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
)

// In-memory fakes for the repository/store/publisher ports. Single-goroutine
// test use only.

type fakeUserRepo struct {
	users map[string]*entity.User // keyed by email
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[u.Email]; ok {
		return errors.New("duplicate key")
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) error {
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[email]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func userWith(email, name, hash string) *entity.User {
	return &entity.User{Email: email, Name: name, PasswordHash: hash}
}

type storedCode struct {
	code      string
	expiresAt time.Time
}

type fakeCodeStore struct {
	codes map[string]storedCode
	err   error
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: map[string]storedCode{}}
}

func (s *fakeCodeStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.codes[email] = storedCode{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *fakeCodeStore) Match(_ context.Context, email, code string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	sc, ok := s.codes[email]
	if !ok || time.Now().After(sc.expiresAt) {
		return false, nil
	}
	return sc.code == code, nil
}

func (s *fakeCodeStore) Delete(_ context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.codes, email)
	return nil
}

type fakePublisher struct {
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type fakeWorkoutRepo struct {
	workouts []entity.Workout
	err      error
}

func (r *fakeWorkoutRepo) Insert(_ context.Context, w *entity.Workout) error {
	if r.err != nil {
		return r.err
	}
	w.ID = uuid.NewString()
	w.CreatedAt = time.Now()
	r.workouts = append(r.workouts, *w)
	return nil
}

func (r *fakeWorkoutRepo) ListByOwner(_ context.Context, email string) ([]entity.Workout, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Workout
	for _, w := range r.workouts {
		if w.OwnerEmail == email {
			out = append(out, w)
		}
	}
	// Date-descending with insertion order as tiebreak, like the real store.
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := out[i].Payload["date"].(string)
		dj, _ := out[j].Payload["date"].(string)
		return di > dj
	})
	return out, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id string) (*entity.Workout, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, w := range r.workouts {
		if w.ID == id {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}
