package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"munch-server/db"
	"munch-server/logger"
	"munch-server/models"
)

const PLACES_GEO_KEY_V1 = "places_geo_v1"
const PLACES_GEO_PLACE_MEMBER_FORMAT_V1 = "places_geo_place_v1:%s"

// RedisPlaceDAO caches places in Redis as geo members with their JSON.
type RedisPlaceDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisPlaceDAO initializes a RedisPlaceDAO. A zero ttl never expires
// cached places.
func NewRedisPlaceDAO(client db.RedisClient, ttl time.Duration) *RedisPlaceDAO {
	return &RedisPlaceDAO{client: client, ttl: ttl}
}

func placeKey(placeID string) string {
	return fmt.Sprintf(PLACES_GEO_PLACE_MEMBER_FORMAT_V1, placeID)
}

// UpsertPlace stores the place as a geolocation with the place's JSON data.
func (dao *RedisPlaceDAO) UpsertPlace(ctx context.Context, p models.Place) error {
	if p.PlaceID == "" {
		return errors.New("[RedisPlaceDAO] place without id")
	}
	return dao.client.AddLocationWithJSON(ctx, PLACES_GEO_KEY_V1, placeKey(p.PlaceID), p.Lat, p.Lng, p, dao.ttl)
}

// GetPlace returns the cached place, or nil on a cache miss.
func (dao *RedisPlaceDAO) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	str, err := dao.client.Get(ctx, placeKey(placeID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("[RedisPlaceDAO] failed to get place %s: %w", placeID, err)
	}
	var p models.Place
	if err := json.Unmarshal([]byte(str), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place JSON: %w", err)
	}
	return &p, nil
}

// GetNearbyPlaces retrieves cached places within radius km, nearest first.
func (dao *RedisPlaceDAO) GetNearbyPlaces(ctx context.Context, lat, lon, radius float64) ([]models.Place, error) {
	placesJSON, err := dao.client.GetLocationsWithinRadius(ctx, PLACES_GEO_KEY_V1, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("[RedisPlaceDAO] failed to get places: %w", err)
	}

	places := make([]models.Place, len(placesJSON))
	for i, placeJSON := range placesJSON {
		if err := json.Unmarshal([]byte(placeJSON), &places[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal place JSON: %w", err)
		}
	}
	logger.Component("RedisPlaceDAO").Debug().Int("count", len(places)).Msg("read nearby places")
	return places, nil
}

// ListAllPlaceIDs returns the ids of every place still cached.
func (dao *RedisPlaceDAO) ListAllPlaceIDs(ctx context.Context) ([]string, error) {
	keys, err := dao.client.Keys(ctx, placeKey("*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list place keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	prefix := placeKey("")
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

func (dao *RedisPlaceDAO) DeletePlace(ctx context.Context, placeID string) error {
	key := placeKey(placeID)
	if err := dao.client.Del(ctx, key); err != nil {
		return fmt.Errorf("failed to delete place key %s: %w", key, err)
	}
	logger.Component("RedisPlaceDAO").Debug().Str("place_id", placeID).Msg("deleted cached place")
	return nil
}
