package services

import (
	"context"
	"errors"
	"time"

	"munch-server/api"
	"munch-server/api/places"
	"munch-server/dao/redis"
	"munch-server/logger"
	"munch-server/models"
)

// PlacesRefresherService periodically loads the places of the configured
// collections into the cache and refreshes the places already cached.
type PlacesRefresherService struct {
	placeDao      *redis.RedisPlaceDAO
	placesApi     places.PlacesAPI
	collections   *CollectionService
	collectionIDs []string
}

// NewPlacesRefresherService constructs a new refresher with dependencies.
func NewPlacesRefresherService(
	placeDao *redis.RedisPlaceDAO,
	placesApi places.PlacesAPI,
	collections *CollectionService,
	collectionIDs []string,
) *PlacesRefresherService {
	return &PlacesRefresherService{
		placeDao:      placeDao,
		placesApi:     placesApi,
		collections:   collections,
		collectionIDs: collectionIDs,
	}
}

// StartPeriodicJob launches the background loop at the given interval. The
// loop stops when ctx is cancelled.
func (pr *PlacesRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go pr.startPeriodicJob(ctx, interval)
}

func (pr *PlacesRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	log := logger.Component("PlacesRefresherService")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("periodic places refresher stopped")
			return
		case <-ticker.C:
			log.Info().Msg("running periodic places refresher job")
			if err := pr.RefreshPlacesData(ctx); err != nil {
				log.Error().Err(err).Msg("RefreshPlacesData returned error")
			} else {
				log.Info().Msg("RefreshPlacesData completed successfully")
			}
		}
	}
}

// RefreshPlacesData drains every configured collection and caches its
// places, then refreshes whatever else is still cached. It returns an error
// only when nothing could be loaded.
func (pr *PlacesRefresherService) RefreshPlacesData(ctx context.Context) error {
	seen := make(map[string]struct{})
	var lastErr error
	loaded := 0

	for _, collectionID := range pr.collectionIDs {
		n, err := pr.refreshCollection(ctx, collectionID, seen)
		if err != nil {
			lastErr = err
			continue
		}
		loaded += n
	}

	n, err := pr.RefreshCachedPlaces(ctx, seen)
	if err != nil {
		lastErr = err
	}
	loaded += n

	if loaded == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

func (pr *PlacesRefresherService) refreshCollection(ctx context.Context, collectionID string, seen map[string]struct{}) (int, error) {
	log := logger.Component("PlacesRefresherService")

	entries, err := pr.collections.GetCollectionPlaces(ctx, collectionID)
	if err != nil {
		log.Warn().Err(err).Str("collection_id", collectionID).Msg("failed to load collection")
		return 0, err
	}
	log.Info().Str("collection_id", collectionID).Int("count", len(entries)).Msg("collection loaded")

	upserted := 0
	for _, entry := range entries {
		if _, dup := seen[entry.PlaceID]; dup {
			continue
		}
		seen[entry.PlaceID] = struct{}{}

		p := entry.Place
		if p.PlaceID == "" {
			fetched, err := pr.placesApi.GetPlace(ctx, entry.PlaceID)
			if err != nil {
				log.Warn().Err(err).Str("place_id", entry.PlaceID).Msg("GetPlace failed")
				continue
			}
			p = *fetched
		}
		if pr.upsert(ctx, p) {
			upserted++
		}
	}
	return upserted, nil
}

// RefreshCachedPlaces re-reads every cached place not in skip from the
// places API. Places the API no longer knows are removed from the cache.
func (pr *PlacesRefresherService) RefreshCachedPlaces(ctx context.Context, skip map[string]struct{}) (int, error) {
	log := logger.Component("PlacesRefresherService")

	ids, err := pr.placeDao.ListAllPlaceIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error listing cached place ids")
		return 0, err
	}

	refreshed := 0
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		p, err := pr.placesApi.GetPlace(ctx, id)
		if errors.Is(err, api.ErrNotFound) {
			log.Info().Str("place_id", id).Msg("place gone upstream, removing cache")
			if err := pr.placeDao.DeletePlace(ctx, id); err != nil {
				log.Warn().Err(err).Str("place_id", id).Msg("failed to delete stale place")
			}
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("place_id", id).Msg("GetPlace failed")
			continue
		}
		if pr.upsert(ctx, *p) {
			refreshed++
		}
	}
	return refreshed, nil
}

func (pr *PlacesRefresherService) upsert(ctx context.Context, p models.Place) bool {
	if err := pr.placeDao.UpsertPlace(ctx, p); err != nil {
		logger.Component("PlacesRefresherService").Warn().Err(err).Str("place_id", p.PlaceID).Msg("upsert failed")
		return false
	}
	return true
}
