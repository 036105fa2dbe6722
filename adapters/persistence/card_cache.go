package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/logger"
)

const (
	cardNamespace  = "card"
	tokenNamespace = "card-token"
)

type redisCardCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCardCache stores whole profiles under card:<userId> and the short token
// index under card-token:<shortId>. Cache failures are logged and reported as misses.
func NewRedisCardCache(client redis.UniversalClient, ttl time.Duration, log logger.Logger) profile.Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisCardCache{client: client, ttl: ttl, logger: log}
}

func key(namespace, id string) string {
	return namespace + ":" + id
}

func (c *redisCardCache) Get(ctx context.Context, userID string) (*profile.Profile, bool) {
	raw, err := c.client.Get(ctx, key(cardNamespace, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Card cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	p := &profile.Profile{}
	if err := json.Unmarshal(raw, p); err != nil {
		c.logger.Warn("Card cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return p.Normalize(), true
}

func (c *redisCardCache) Set(ctx context.Context, p *profile.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	shortID := p.ShortID
	if shortID == "" {
		shortID = profile.ShortID(p.UserID)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(cardNamespace, p.UserID), raw, c.ttl)
		pipe.Set(ctx, key(tokenNamespace, shortID), p.UserID, 0)
		return nil
	})
	return err
}

func (c *redisCardCache) LookupShortID(ctx context.Context, shortID string) (string, bool) {
	userID, err := c.client.Get(ctx, key(tokenNamespace, shortID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Token index read failed", zap.String("short_id", shortID), zap.Error(err))
		}
		return "", false
	}
	return userID, true
}

// Invalidate drops the cached record. The token index stays since a user's short
// token never changes.
func (c *redisCardCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, key(cardNamespace, userID)).Err()
}
