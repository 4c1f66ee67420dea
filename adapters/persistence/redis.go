package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/logger"
)

func NewRedisClient(ctx context.Context, cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.", zap.String("addr", cfg.Redis.Addr))
	return rdb, nil
}

type redisProfileCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisProfileCache stores profile views as JSON under "profile:user:<id>"
// and the invalidation generation under "profile:gen:<id>". Cache errors are
// logged and otherwise ignored.
func NewRedisProfileCache(rdb redis.Cmdable, ttl time.Duration, log logger.Logger) service.ProfileCache {
	return &redisProfileCache{rdb: rdb, ttl: ttl, logger: log}
}

func profileKey(userID uuid.UUID) string {
	return "profile:user:" + userID.String()
}

func profileGenKey(userID uuid.UUID) string {
	return "profile:gen:" + userID.String()
}

// setIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation counts as 0. ARGV[3] is the ttl in ms, 0 for none.
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// noGeneration makes Set a no-op after a failed read.
const noGeneration int64 = -1

func (c *redisProfileCache) Get(ctx context.Context, userID uuid.UUID) (*profile.View, int64, bool) {
	vals, err := c.rdb.MGet(ctx, profileKey(userID), profileGenKey(userID)).Result()
	if err != nil {
		c.logger.Warn("Profile cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, noGeneration, false
	}
	var gen int64
	if vals[1] != nil {
		if gen, err = cast.ToInt64E(vals[1]); err != nil {
			c.logger.Warn("Profile cache generation unreadable", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, noGeneration, false
		}
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	v := &profile.View{}
	if err := json.Unmarshal([]byte(data), v); err != nil || v.Profile == nil {
		c.logger.Warn("Dropping corrupt profile cache entry", zap.String("user_id", userID.String()), zap.Error(err))
		c.Invalidate(ctx, userID)
		return nil, noGeneration, false
	}
	// "user" decodes into the owner, not the shadowed profile field
	v.Profile.UserID = v.User.ID
	return v, gen, true
}

func (c *redisProfileCache) Set(ctx context.Context, v *profile.View, gen int64) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Profile cache encode failed", zap.Error(err))
		return
	}
	keys := []string{profileKey(v.User.ID), profileGenKey(v.User.ID)}
	stored, err := setIfGeneration.Run(ctx, c.rdb, keys, gen, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("Profile cache write failed", zap.String("user_id", v.User.ID.String()), zap.Error(err))
		return
	}
	if stored == 0 {
		c.logger.Debug("Profile cache fill skipped, entry invalidated meanwhile", zap.String("user_id", v.User.ID.String()))
	}
}

func (c *redisProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, profileKey(userID))
		pipe.Incr(ctx, profileGenKey(userID))
		return nil
	})
	if err != nil {
		c.logger.Warn("Profile cache invalidate failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

type nopProfileCache struct{}

// NewNopProfileCache is used when no Redis address is configured.
func NewNopProfileCache() service.ProfileCache {
	return nopProfileCache{}
}

func (nopProfileCache) Get(context.Context, uuid.UUID) (*profile.View, int64, bool) {
	return nil, noGeneration, false
}

func (nopProfileCache) Set(context.Context, *profile.View, int64) {}

func (nopProfileCache) Invalidate(context.Context, uuid.UUID) {}
