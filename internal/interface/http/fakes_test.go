package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/application"
	"github.com/madinafit/fitness-backend/internal/domain/entity"
	"github.com/madinafit/fitness-backend/pkg/helpers"
	"github.com/madinafit/fitness-backend/pkg/mailer"
	"github.com/madinafit/fitness-backend/pkg/validation"
)

var initOnce sync.Once

// envelope mirrors response.APIResponse for decoding in assertions.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
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
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) error {
	u, ok := r.users[email]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = hash
	return nil
}

type storedCode struct {
	code      string
	expiresAt time.Time
}

type fakeCodeStore struct {
	codes map[string]storedCode
}

func (s *fakeCodeStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = storedCode{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *fakeCodeStore) Match(_ context.Context, email, code string) (bool, error) {
	sc, ok := s.codes[email]
	if !ok || time.Now().After(sc.expiresAt) {
		return false, nil
	}
	return sc.code == code, nil
}

func (s *fakeCodeStore) Delete(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

type fakeWorkoutRepo struct {
	workouts []entity.Workout
}

func (r *fakeWorkoutRepo) Insert(_ context.Context, w *entity.Workout) error {
	w.ID = uuid.NewString()
	w.CreatedAt = time.Now()
	r.workouts = append(r.workouts, *w)
	return nil
}

func (r *fakeWorkoutRepo) ListByOwner(_ context.Context, email string) ([]entity.Workout, error) {
	var out []entity.Workout
	for _, w := range r.workouts {
		if w.OwnerEmail == email {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := out[i].Payload["date"].(string)
		dj, _ := out[j].Payload["date"].(string)
		return di > dj
	})
	return out, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id string) (*entity.Workout, error) {
	for _, w := range r.workouts {
		if w.ID == id {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

type testAPI struct {
	engine   *gin.Engine
	users    *fakeUserRepo
	codes    *fakeCodeStore
	pub      *fakePublisher
	workouts *fakeWorkoutRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	initOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := &fakeUserRepo{users: map[string]*entity.User{}}
	codes := &fakeCodeStore{codes: map[string]storedCode{}}
	pub := &fakePublisher{}
	workoutRepo := &fakeWorkoutRepo{}

	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	accountSvc := application.NewAccountService(users, jwt, nil, logger, nil, "")
	resetSvc := application.NewResetService(users, codes, pub, logger, 10*time.Minute)
	workoutSvc := application.NewWorkoutService(workoutRepo, logger)

	accountHandler := NewAccountHandler(accountSvc, logger, "localhost", false)
	resetHandler := NewResetHandler(resetSvc, logger)
	workoutHandler := NewWorkoutHandler(workoutSvc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", accountHandler.Register)
	api.POST("/login", accountHandler.Login)
	api.GET("/users", accountHandler.Lookup)
	api.POST("/password/change", accountHandler.ChangePassword)
	api.POST("/password/reset/request", resetHandler.RequestCode)
	api.POST("/password/reset/confirm", resetHandler.ResetPassword)
	api.POST("/workouts", workoutHandler.Submit)
	api.GET("/workouts", workoutHandler.List)
	api.GET("/workouts/:id", workoutHandler.Get)

	return &testAPI{engine: r, users: users, codes: codes, pub: pub, workouts: workoutRepo}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%q", err, rec.Body.String())
	}
	return rec, env
}

func (a *testAPI) register(t *testing.T, email, password, name string) {
	t.Helper()
	rec, _ := a.do(t, http.MethodPost, "/api/register", gin.H{
		"email": email, "password": password, "name": name,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
}
