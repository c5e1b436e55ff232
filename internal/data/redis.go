package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"robo-advisor/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "robo:history:"

// RedisCache shares fetched histories between processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and pings it.
func NewRedisCache(ctx context.Context, opts RedisOptions, log *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: opts.TTL, log: log.Named("redis-cache")}, nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Get retrieves a cached history. Redis errors count as misses.
func (r *RedisCache) Get(ctx context.Context, key string) ([]model.PriceSeries, bool) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache read failed (ignored)", zap.Error(err))
		}
		return nil, false
	}
	var series []model.PriceSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		r.log.Warn("cache entry corrupt (ignored)", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return series, true
}

// Set stores a history with the configured TTL (0 keeps it until evicted).
func (r *RedisCache) Set(ctx context.Context, key string, series []model.PriceSeries) {
	raw, err := json.Marshal(series)
	if err != nil {
		r.log.Warn("cache encode failed (ignored)", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		r.log.Warn("cache write failed (ignored)", zap.Error(err))
	}
}
