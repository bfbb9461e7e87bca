// Package blacklist keeps revoked access tokens until they would have expired.
package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "edumanager_backend/internals/features/users/auth/model"
)

type Store interface {
	Add(ctx context.Context, rawToken string, ttl time.Duration) error
	Contains(ctx context.Context, rawToken string) (bool, error)
	// Purge drops expired entries and returns how many went away.
	Purge(ctx context.Context) (int64, error)
}

// Fingerprint is the sha256 hex of a raw token. Raw tokens are never stored.
func Fingerprint(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// Checker adapts a store to the JWT middleware callback. ctx is the request context.
func Checker(s Store) func(ctx context.Context, rawToken string) (bool, error) {
	return func(ctx context.Context, rawToken string) (bool, error) {
		return s.Contains(ctx, rawToken)
	}
}

/* ========== PostgreSQL (token_blacklist) ========== */

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) Add(ctx context.Context, rawToken string, ttl time.Duration) error {
	row := authModel.TokenBlacklistModel{
		Fingerprint: Fingerprint(rawToken),
		ExpiredAt:   time.Now().UTC().Add(ttl),
	}
	// logout dua kali: idempotent
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "fingerprint"}}, DoNothing: true}).
		Create(&row).Error
}

func (s *GormStore) Contains(ctx context.Context, rawToken string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&authModel.TokenBlacklistModel{}).
		Where("fingerprint = ? AND expired_at > ?", Fingerprint(rawToken), time.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) Purge(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expired_at <= ?", time.Now().UTC()).
		Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}

/* ========== Redis ========== */

const defaultRedisPrefix = "edumanager:blacklist:"

type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: defaultRedisPrefix}
}

func (s *RedisStore) key(rawToken string) string {
	return s.Prefix + Fingerprint(rawToken)
}

func (s *RedisStore) Add(ctx context.Context, rawToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Client.Set(ctx, s.key(rawToken), "1", ttl).Err()
}

func (s *RedisStore) Contains(ctx context.Context, rawToken string) (bool, error) {
	err := s.Client.Get(ctx, s.key(rawToken)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Purge is a no-op: Redis expires keys itself.
func (s *RedisStore) Purge(context.Context) (int64, error) { return 0, nil }
