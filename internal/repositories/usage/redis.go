package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// counterTTL keeps a day's counter around long enough to cover every timezone
const counterTTL = 48 * time.Hour

// incrementIfBelow returns {admitted, count}
var incrementIfBelow = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return {0, current}
end
current = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {1, current}
`)

// Key is the Redis key for one user's counter on one day
func Key(ownerID, date string) string {
	return fmt.Sprintf("daily_usage:%s:%s", ownerID, date)
}

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed usage repository
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) Get(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	raw, err := r.client.Get(ctx, Key(ownerID, date)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Wrap(err, "failed to get usage counter")
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Wrapf(err, "invalid usage counter %q", raw)
	}
	return count, nil
}

func (r *redisRepo) Increment(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	key := Key(ownerID, date)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperr.Wrap(err, "failed to increment usage counter")
	}

	return int(incr.Val()), nil
}

func (r *redisRepo) IncrementIfBelow(ctx context.Context, ownerID, date string, limit int) (int, bool, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, false, err
	}

	res, err := incrementIfBelow.Run(ctx, r.client,
		[]string{Key(ownerID, date)},
		limit, int(counterTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return 0, false, apperr.Wrap(err, "failed to acquire usage slot")
	}
	if len(res) != 2 {
		return 0, false, apperr.Internalf("unexpected script reply %v", res)
	}

	return int(res[1]), res[0] == 1, nil
}
