package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"munch-server/logger"
)

// GeoRedisClient implements RedisClient on top of go-redis
type GeoRedisClient struct {
	client *redis.Client
}

// NewGeoRedisClient wraps an existing go-redis client
func NewGeoRedisClient(client *redis.Client) *GeoRedisClient {
	return &GeoRedisClient{client: client}
}

// Connect pings Redis and returns a client once it answers.
func Connect(ctx context.Context, opts *redis.Options) (*GeoRedisClient, error) {
	c := NewGeoRedisClient(redis.NewClient(opts))
	if err := c.Ping(ctx); err != nil {
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}
	logger.Component("Redis").Info().Str("addr", opts.Addr).Msg("connected to redis")
	return c, nil
}

// Set sets a key-value pair in Redis. A zero ttl keeps the key forever.
func (r *GeoRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GeoRedisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	return v, err
}

// AddLocationWithJSON stores a member of a geo set along with its JSON
// document under memberKey.
func (r *GeoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      memberKey,
		Latitude:  lat,
		Longitude: lon,
	}).Result(); err != nil {
		return fmt.Errorf("failed to add geolocation: %w", err)
	}

	if err := r.client.Set(ctx, memberKey, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set JSON data: %w", err)
	}

	logger.Component("Redis").Debug().Str("member", memberKey).Msg("added geolocation and JSON")
	return nil
}

// GetLocationsWithinRadius returns the JSON documents of every member within
// radius km. Members whose document expired are skipped.
func (r *GeoRedisClient) GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radius float64) ([]string, error) {
	log := logger.Component("Redis")

	results, err := r.client.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius: radius,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}

	var objects []string
	for _, loc := range results {
		data, err := r.client.Get(ctx, loc.Name).Result()
		if err != nil {
			log.Debug().Err(err).Str("member", loc.Name).Msg("skipping member")
			continue
		}
		objects = append(objects, data)
	}

	return objects, nil
}

// Members lists every member name of a geo set.
func (r *GeoRedisClient) Members(ctx context.Context, geoKey string) ([]string, error) {
	return r.client.ZRange(ctx, geoKey, 0, -1).Result()
}

func (r *GeoRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r *GeoRedisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *GeoRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *GeoRedisClient) Close() error {
	return r.client.Close()
}
