package places

import (
	"context"

	"munch-server/models"
)

// PlacesAPI defines the interface for interacting with the places API.
// Paged calls take the exclusive upper sort key of the page to read, nil
// for the first page.
type PlacesAPI interface {
	SetCredentials(apiKey string)
	GetPlace(ctx context.Context, placeID string) (*models.Place, error)
	SearchPlaces(ctx context.Context, query string, maxSortKey *int64, size int) (*models.ListResponse[models.Place], error)
	GetCollections(ctx context.Context, userID string, maxSortKey *int64, size int) (*models.ListResponse[models.Collection], error)
	GetCollectionPlaces(ctx context.Context, collectionID string, maxSortKey *int64, size int) (*models.ListResponse[models.CollectionPlace], error)
	GetContentItems(ctx context.Context, contentID string, maxSortKey *int64, size int) (*models.ListResponse[models.ContentItem], error)
	RedeemVoucher(ctx context.Context, voucherID, userID string) (*models.VoucherRedemption, error)
}
