package db

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient defines the methods the cache layer needs from Redis
type RedisClient interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}, ttl time.Duration) error
	GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radius float64) ([]string, error)
	Members(ctx context.Context, geoKey string) ([]string, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
