package redisstore

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madinafit/fitness-backend/internal/domain/repository"
	"github.com/madinafit/fitness-backend/pkg/helpers"
)

// ResetCodeStore keeps reset codes in Redis. The key TTL is the expiry: Redis
// garbage-collects a code once its window passes, so an expired code and a
// never-issued one look the same to Match.
type ResetCodeStore struct {
	rdb *redis.Client
}

func NewResetCodeStore(rdb *redis.Client) *ResetCodeStore {
	return &ResetCodeStore{rdb: rdb}
}

func (s *ResetCodeStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	// SET overwrites, so at most one live code exists per email.
	return s.rdb.Set(ctx, helpers.KeyResetCode(email), code, ttl).Err()
}

func (s *ResetCodeStore) Match(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, helpers.KeyResetCode(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

func (s *ResetCodeStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, helpers.KeyResetCode(email)).Err()
}

var _ repository.ResetCodeStore = (*ResetCodeStore)(nil)
