package places

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"munch-server/api"
	"munch-server/models"
	"munch-server/util"
)

// PlacesApiClientMock serves the places API from an in-memory fixture.
// Paging follows the real API: descending sort key, maxSortKey exclusive.
type PlacesApiClientMock struct {
	mu      sync.Mutex
	fixture *models.Fixture

	// Err, when set, is returned by every call.
	Err error
}

// NewPlacesApiClientMock loads the fixture at fixturePath.
func NewPlacesApiClientMock(fixturePath string) (*PlacesApiClientMock, error) {
	fixture, err := util.ReadFixtureFromJSON(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("could not read places fixture: %w", err)
	}
	return NewPlacesApiClientMockFromData(fixture), nil
}

func NewPlacesApiClientMockFromData(fixture *models.Fixture) *PlacesApiClientMock {
	if fixture == nil {
		fixture = &models.Fixture{}
	}
	return &PlacesApiClientMock{fixture: fixture}
}

func (c *PlacesApiClientMock) SetCredentials(apiKey string) {}

func (c *PlacesApiClientMock) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	for _, p := range c.fixture.Places {
		if p.PlaceID == placeID {
			place := p
			return &place, nil
		}
	}
	return nil, fmt.Errorf("GET /places/%s: %w", placeID, api.ErrNotFound)
}

func (c *PlacesApiClientMock) SearchPlaces(ctx context.Context, query string, maxSortKey *int64, size int) (*models.ListResponse[models.Place], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var matched []models.Place
	for _, p := range c.fixture.Places {
		if q == "" || matchesQuery(p, q) {
			matched = append(matched, p)
		}
	}
	return page(matched, func(p models.Place) int64 { return p.SortKey }, maxSortKey, size), nil
}

func (c *PlacesApiClientMock) GetCollections(ctx context.Context, userID string, maxSortKey *int64, size int) (*models.ListResponse[models.Collection], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	var owned []models.Collection
	for _, col := range c.fixture.Collections {
		if col.UserID == userID {
			owned = append(owned, col)
		}
	}
	return page(owned, func(col models.Collection) int64 { return col.SortKey }, maxSortKey, size), nil
}

func (c *PlacesApiClientMock) GetCollectionPlaces(ctx context.Context, collectionID string, maxSortKey *int64, size int) (*models.ListResponse[models.CollectionPlace], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	var entries []models.CollectionPlace
	for _, cp := range c.fixture.CollectionPlaces {
		if cp.CollectionID != collectionID {
			continue
		}
		if cp.Place.PlaceID == "" {
			for _, p := range c.fixture.Places {
				if p.PlaceID == cp.PlaceID {
					cp.Place = p
					break
				}
			}
		}
		entries = append(entries, cp)
	}
	return page(entries, func(cp models.CollectionPlace) int64 { return cp.SortKey }, maxSortKey, size), nil
}

func (c *PlacesApiClientMock) GetContentItems(ctx context.Context, contentID string, maxSortKey *int64, size int) (*models.ListResponse[models.ContentItem], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	var items []models.ContentItem
	for _, it := range c.fixture.ContentItems {
		if it.ContentID == contentID {
			items = append(items, it)
		}
	}
	return page(items, func(it models.ContentItem) int64 { return it.SortKey }, maxSortKey, size), nil
}

func (c *PlacesApiClientMock) RedeemVoucher(ctx context.Context, voucherID, userID string) (*models.VoucherRedemption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	return &models.VoucherRedemption{
		VoucherID:  voucherID,
		UserID:     userID,
		Code:       strings.ToUpper(voucherID) + "-" + userID,
		Status:     "redeemed",
		RedeemedAt: time.Now().UTC(),
	}, nil
}

func matchesQuery(p models.Place, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Address), q) {
		return true
	}
	for _, cuisine := range p.Cuisines {
		if strings.Contains(strings.ToLower(cuisine), q) {
			return true
		}
	}
	return false
}

func page[T any](all []T, keyOf func(T) int64, maxSortKey *int64, size int) *models.ListResponse[T] {
	sorted := make([]T, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool { return keyOf(sorted[i]) > keyOf(sorted[j]) })

	data := []T{}
	for _, item := range sorted {
		if maxSortKey != nil && keyOf(item) >= *maxSortKey {
			continue
		}
		if size > 0 && len(data) == size {
			break
		}
		data = append(data, item)
	}

	resp := &models.ListResponse[T]{Data: data}
	if size > 0 && len(data) == size {
		next := keyOf(data[len(data)-1])
		resp.Next = &next
	}
	return resp
}
