package services

import (
	"context"
	"fmt"

	"munch-server/api/places"
	"munch-server/logger"
	"munch-server/metrics"
	"munch-server/models"
	"munch-server/pagination"
)

// CollectionService returns whole lists built by draining the paged
// endpoints of the places API.
type CollectionService struct {
	placesApi places.PlacesAPI
	pageSize  int
}

func NewCollectionService(placesApi places.PlacesAPI, pageSize int) *CollectionService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &CollectionService{placesApi: placesApi, pageSize: pageSize}
}

// GetUserCollections returns every collection of a user. The slice is empty,
// not nil, when the user has none.
func (cs *CollectionService) GetUserCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	fetch := listFetcher[models.Collection](func(ctx context.Context, maxSortKey *int64, size int) (*models.ListResponse[models.Collection], error) {
		return cs.placesApi.GetCollections(ctx, userID, maxSortKey, size)
	})
	return drain[models.Collection](ctx, "collections", fetch, cs.pageSize, collectionKey)
}

func (cs *CollectionService) GetCollectionPlaces(ctx context.Context, collectionID string) ([]models.CollectionPlace, error) {
	fetch := listFetcher[models.CollectionPlace](func(ctx context.Context, maxSortKey *int64, size int) (*models.ListResponse[models.CollectionPlace], error) {
		return cs.placesApi.GetCollectionPlaces(ctx, collectionID, maxSortKey, size)
	})
	return drain[models.CollectionPlace](ctx, "collection_places", fetch, cs.pageSize, collectionPlaceKey)
}

func (cs *CollectionService) GetContentItems(ctx context.Context, contentID string) ([]models.ContentItem, error) {
	fetch := listFetcher[models.ContentItem](func(ctx context.Context, maxSortKey *int64, size int) (*models.ListResponse[models.ContentItem], error) {
		return cs.placesApi.GetContentItems(ctx, contentID, maxSortKey, size)
	})
	return drain[models.ContentItem](ctx, "content_items", fetch, cs.pageSize, contentItemKey)
}

func drain[T any](ctx context.Context, resource string, fetch pagination.Fetcher[T], pageSize int, keyOf func(T) pagination.Cursor) ([]T, error) {
	items, err := pagination.Drain(ctx, fetch, pageSize, keyOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", resource, err)
	}
	metrics.RecordExhausted(resource)
	logger.Component("CollectionService").Debug().Str("resource", resource).Int("count", len(items)).Msg("list drained")
	return items, nil
}
