package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// admitScript increments the window counter, arms the expiry on the first
// hit and returns {count, pttl}.
var admitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Redis is the distributed limiter. The counter store is the source of
// truth for every process sharing it.
type Redis struct {
	client redis.UniversalClient
	cfg    Config
	now    func() time.Time
}

// NewRedis creates a limiter on an existing client.
func NewRedis(client redis.UniversalClient, cfg Config) *Redis {
	return &Redis{
		client: client,
		cfg:    cfg.WithDefaults(),
		now:    time.Now,
	}
}

// NewRedisFromURL parses url, applies short dial/read timeouts and pings the
// server.
func NewRedisFromURL(ctx context.Context, url string, cfg Config) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedis(client, cfg), nil
}

func (r *Redis) Backend() string {
	return "redis"
}

func (r *Redis) Admit(ctx context.Context, key string) (Decision, error) {
	now := r.now()

	values, err := admitScript.Run(ctx, r.client, []string{r.key(key)}, r.cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to run admit script: %w", err)
	}

	if len(values) != 2 {
		return Decision{}, fmt.Errorf("admit script returned %d values", len(values))
	}

	count, ttl := values[0], values[1]

	return decide(r.cfg.Limit, int(count), now.Add(time.Duration(ttl)*time.Millisecond)), nil
}

func (r *Redis) Info(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	redisKey := r.key(key)

	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, redisKey)
	ttlCmd := pipe.PTTL(ctx, redisKey)

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return Decision{}, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	count, err := getCmd.Int()
	if errors.Is(err, redis.Nil) {
		return decide(r.cfg.Limit, 0, now.Add(r.cfg.Window)), nil
	}

	if err != nil {
		return Decision{}, fmt.Errorf("failed to parse rate limit counter: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = r.cfg.Window
	}

	return decide(r.cfg.Limit, count, now.Add(ttl)), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(key string) string {
	return r.cfg.KeyPrefix + key
}
