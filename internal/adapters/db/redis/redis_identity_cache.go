package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "identity:"

// RedisIdentityCache stores public identities only; a password hash is never
// written to redis.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisIdentityCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisIdentityCache {
	return &RedisIdentityCache{
		client: client,
		ttl:    safeTTL(ttl),
		log:    log.Named("identity_cache"),
	}
}

func (r *RedisIdentityCache) Get(ctx context.Context, id uuid.UUID) (model.Identity, bool) {
	raw, err := r.client.Get(ctx, keyPrefix+id.String()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return model.Identity{}, false
	case err != nil:
		r.log.Warn("cache get failed", zap.Error(err))
		return model.Identity{}, false
	}

	var identity model.Identity
	if err := json.Unmarshal(raw, &identity); err != nil || identity.ID != id {
		r.log.Warn("dropping corrupt cache entry", zap.String("id", id.String()), zap.Error(err))
		_ = r.client.Del(ctx, keyPrefix+id.String()).Err()
		return model.Identity{}, false
	}
	return identity, true
}

func (r *RedisIdentityCache) Set(ctx context.Context, identity model.Identity) {
	raw, err := json.Marshal(identity)
	if err != nil {
		r.log.Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, keyPrefix+identity.ID.String(), raw, r.ttl).Err(); err != nil {
		r.log.Warn("cache set failed", zap.Error(err))
	}
}

func (r *RedisIdentityCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func safeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		// entries always expire
		return 5 * time.Minute
	}
	return ttl
}
