package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
	"github.com/madinafit/fitness-backend/internal/domain/repository"
	"github.com/madinafit/fitness-backend/pkg/apperrors"
	"github.com/madinafit/fitness-backend/pkg/helpers"
	"github.com/madinafit/fitness-backend/pkg/validation"
)

// AccountService owns registration, authentication and password management.
// All state lives in the injected stores; the service itself is stateless.
type AccountService struct {
	Repo         repository.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewAccountService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *AccountService {
	return &AccountService{
		Repo:         repo,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an account with a bcrypt-hashed password and returns the
// public profile. The password is checked against the strength rules before
// anything is stored.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (entity.Profile, error) {
	if msg := validation.CheckPassword(password); msg != "" {
		return entity.Profile{}, apperrors.Validation(msg)
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return entity.Profile{}, s.internal("register lookup failed", err, email)
	}
	if existing != nil {
		return entity.Profile{}, apperrors.Conflict("user already exists")
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return entity.Profile{}, s.internal("password hash failed", err, email)
	}
	u := &entity.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return entity.Profile{}, s.internal("user insert failed", err, email)
	}

	// Best effort; registration does not fail on indexing problems.
	_ = s.indexUser(ctx, u)

	return u.Profile(), nil
}

// Authenticate validates email/password and returns the user without issuing
// tokens. Unknown email and wrong password are reported distinctly, matching
// the documented login contract.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.internal("login lookup failed", err, email)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, apperrors.Unauthorized("wrong password")
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, s.internal("generate access token failed", err, u.Email)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, s.internal("generate refresh token failed", err, u.Email)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        uuid.NewString(),
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (entity.Profile, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return entity.Profile{}, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return entity.Profile{}, TokenPair{}, err
	}
	return u.Profile(), pair, nil
}

// LookupByEmail is a read-only existence check returning the public profile.
func (s *AccountService) LookupByEmail(ctx context.Context, email string) (entity.Profile, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return entity.Profile{}, s.internal("user lookup failed", err, email)
	}
	if u == nil {
		return entity.Profile{}, apperrors.NotFound("user not found")
	}
	return u.Profile(), nil
}

// ChangePassword re-checks the current password before replacing the hash.
func (s *AccountService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if msg := validation.CheckPassword(newPassword); msg != "" {
		return apperrors.Validation(msg)
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return s.internal("change password lookup failed", err, email)
	}
	if u == nil {
		return apperrors.NotFound("user not found")
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, currentPassword) {
		return apperrors.Unauthorized("wrong current password")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return s.internal("password hash failed", err, email)
	}
	if err := s.Repo.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		return s.internal("password update failed", err, email)
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.internal("profile lookup failed", err, userID)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

// Refresh rotates the token pair for a valid refresh token with a live session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperrors.Unauthorized("invalid refresh token")
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, apperrors.Unauthorized("invalid refresh token")
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 {
			return TokenPair{}, apperrors.Unauthorized("session expired")
		}
	}
	return s.IssueTokens(ctx, u)
}

func (s *AccountService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *AccountService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, s.internal("es search failed", err, q)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, s.internal("es response decode failed", err, q)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *AccountService) internal(msg string, err error, subject string) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("subject", subject).Error(msg)
	}
	return apperrors.Internal(err)
}
