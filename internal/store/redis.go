package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an untouched match is kept in Redis.
const DefaultTTL = 24 * time.Hour

// saveScript writes the snapshot only when its version is newer than the stored one.
var saveScript = redis.NewScript(`
local cur = redis.call("HGET", KEYS[1], "version")
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call("HSET", KEYS[1], "version", ARGV[1], "state", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// RedisStore keeps each snapshot in a hash keyed by game id.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, prefix: "uno:game:", ttl: ttl}
}

func (r *RedisStore) key(id uuid.UUID) string {
	return r.prefix + id.String()
}

func (r *RedisStore) Save(ctx context.Context, s *game.GameState) error {
	data, err := game.MarshalState(s)
	if err != nil {
		return err
	}
	err = saveScript.Run(ctx, r.rdb, []string{r.key(s.ID)}, s.Version, string(data), r.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis save %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id uuid.UUID) (*game.GameState, error) {
	data, err := r.rdb.HGet(ctx, r.key(id), "state").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", id, err)
	}
	return game.UnmarshalState(data)
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}
