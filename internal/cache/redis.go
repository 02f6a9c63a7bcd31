package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &Redis{client: client}
}

func (r *Redis) Set(ctx context.Context, k string, v any, ttl time.Duration) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, k, value, ttl).Err()
}

// Get unmarshals the cached value into v. Returns false on a miss or on any
// redis error, the caller falls back to the store either way.
func (r *Redis) Get(ctx context.Context, k string, v any) (bool, error) {
	res := r.client.Get(ctx, k)
	if err := res.Err(); err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	buf, err := res.Bytes()
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(buf, v); err != nil {
		return false, err
	}

	return true, nil
}

func (r *Redis) Incr(ctx context.Context, k string) error {
	return r.client.Incr(ctx, k).Err()
}

func (r *Redis) GetInt(ctx context.Context, k string) (int64, error) {
	res := r.client.Get(ctx, k)
	if err := res.Err(); err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return res.Int64()
}

func (r *Redis) Del(ctx context.Context, k string) error {
	return r.client.Del(ctx, k).Err()
}
