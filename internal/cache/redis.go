package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goldwatch/internal/quote"
)

// latestTTL expires stale entries once a source has stopped updating.
const latestTTL = 2 * time.Hour

// Redis keeps the latest quote per source so a restarted instance can serve
// reads before its first poll. The service runs without it when Redis is
// unreachable.
type Redis struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) SetLatest(ctx context.Context, q quote.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "latest:"+q.Source, data, latestTTL).Err()
}

// Latest returns nil without error when no quote is cached for the source.
func (r *Redis) Latest(ctx context.Context, source string) (*quote.Quote, error) {
	data, err := r.client.Get(ctx, "latest:"+source).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var q quote.Quote
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
