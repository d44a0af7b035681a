package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
)

const userCacheTTL = 5 * time.Minute

// cachedUserRepository decorates a UserRepository with a Redis read-through
// cache for by-ID lookups, the hot path for token-authenticated requests.
// Mutations invalidate the cached record; email lookups always hit Postgres
// because the uniqueness decision must see current data.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	logger *zap.Logger
}

// NewCachedUserRepository wraps inner with a Redis cache. A nil client
// returns inner unchanged.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, logger *zap.Logger) UserRepository {
	if client == nil {
		return inner
	}
	return &cachedUserRepository{inner: inner, client: client, logger: logger}
}

func userCacheKey(id string) string {
	return "user:id:" + id
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

func (r *cachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *cachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	payload, err := r.client.Get(ctx, userCacheKey(id)).Bytes()
	if err == nil {
		var user domain.User
		if unmarshalErr := json.Unmarshal(payload, &user); unmarshalErr == nil {
			return &user, nil
		}
	} else if err != redis.Nil {
		r.logger.Warn("user cache read failed", zap.Error(err))
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(user); marshalErr == nil {
		if setErr := r.client.Set(ctx, userCacheKey(id), payload, userCacheTTL).Err(); setErr != nil {
			r.logger.Warn("user cache write failed", zap.Error(setErr))
		}
	}
	return user, nil
}

func (r *cachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.inner.GetByEmail(ctx, email)
}

func (r *cachedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.inner.List(ctx)
}

func (r *cachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, userCacheKey(id)).Err(); err != nil {
		r.logger.Warn("user cache invalidation failed", zap.Error(err))
	}
}
