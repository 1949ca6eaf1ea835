package places

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"munch-server/api"
	"munch-server/metrics"
	"munch-server/models"
)

const apiKeyHeader = "X-Api-Key"

// PlacesApiClient embeds the common HTTPClient
type PlacesApiClient struct {
	*api.HTTPClient
}

// NewPlacesApiClient creates a new instance of PlacesApiClient
func NewPlacesApiClient(httpClient *api.HTTPClient) *PlacesApiClient {
	return &PlacesApiClient{
		HTTPClient: httpClient,
	}
}

func (c *PlacesApiClient) SetCredentials(apiKey string) {
	c.SetHeader(apiKeyHeader, apiKey)
}

// GetPlace retrieves a place given its id
func (c *PlacesApiClient) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	var response models.Place
	if err := c.do(ctx, "place", http.MethodGet, "/places/"+url.PathEscape(placeID), nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchPlaces retrieves one page of places matching a free-text query
func (c *PlacesApiClient) SearchPlaces(ctx context.Context, query string, maxSortKey *int64, size int) (*models.ListResponse[models.Place], error) {
	q := pageQuery(maxSortKey, size)
	q.Set("query", query)

	var response models.ListResponse[models.Place]
	if err := c.do(ctx, "search", http.MethodGet, "/search/places", q, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetCollections retrieves one page of a user's collections
func (c *PlacesApiClient) GetCollections(ctx context.Context, userID string, maxSortKey *int64, size int) (*models.ListResponse[models.Collection], error) {
	var response models.ListResponse[models.Collection]
	endpoint := "/users/" + url.PathEscape(userID) + "/collections"
	if err := c.do(ctx, "collections", http.MethodGet, endpoint, pageQuery(maxSortKey, size), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetCollectionPlaces retrieves one page of the places saved in a collection
func (c *PlacesApiClient) GetCollectionPlaces(ctx context.Context, collectionID string, maxSortKey *int64, size int) (*models.ListResponse[models.CollectionPlace], error) {
	var response models.ListResponse[models.CollectionPlace]
	endpoint := "/collections/" + url.PathEscape(collectionID) + "/places"
	if err := c.do(ctx, "collection_places", http.MethodGet, endpoint, pageQuery(maxSortKey, size), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetContentItems retrieves one page of the items of a content page
func (c *PlacesApiClient) GetContentItems(ctx context.Context, contentID string, maxSortKey *int64, size int) (*models.ListResponse[models.ContentItem], error) {
	var response models.ListResponse[models.ContentItem]
	endpoint := "/contents/" + url.PathEscape(contentID) + "/items"
	if err := c.do(ctx, "content_items", http.MethodGet, endpoint, pageQuery(maxSortKey, size), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// RedeemVoucher redeems a voucher for a user
func (c *PlacesApiClient) RedeemVoucher(ctx context.Context, voucherID, userID string) (*models.VoucherRedemption, error) {
	var response models.VoucherRedemption
	endpoint := "/vouchers/" + url.PathEscape(voucherID) + "/redeem"
	body := models.VoucherRedeemRequest{UserID: userID}
	if err := c.do(ctx, "voucher", http.MethodPost, endpoint, nil, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *PlacesApiClient) do(ctx context.Context, resource, method, endpoint string, query url.Values, body, response interface{}) error {
	start := time.Now()
	err := c.Request(ctx, method, endpoint, query, body, response)
	metrics.RecordUpstreamRequest(resource, time.Since(start), err)
	return err
}

func pageQuery(maxSortKey *int64, size int) url.Values {
	q := url.Values{}
	if maxSortKey != nil {
		q.Set("maxSortKey", strconv.FormatInt(*maxSortKey, 10))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}
