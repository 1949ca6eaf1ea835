package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"munch-server/api/places"
	"munch-server/dao/redis"
	"munch-server/db"
	"munch-server/hours"
	"munch-server/models"
)

// monday10am is 2024-01-01 10:00 UTC, a Monday.
var monday10am = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func testEvaluator() *hours.Evaluator {
	return hours.NewEvaluator(hours.FixedClock{T: monday10am}, hours.GregorianCalendar{}, time.UTC)
}

func weekdayHours() []hours.WeeklyHourInterval {
	return []hours.WeeklyHourInterval{
		{Day: hours.Monday, Open: "09:00", Close: "18:00"},
		{Day: hours.Tuesday, Open: "09:00", Close: "18:00"},
	}
}

func testPlace(id string, sortKey int64) models.Place {
	return models.Place{
		PlaceID: id,
		Name:    "Noodle Bar " + id,
		Lat:     1.3521,
		Lng:     103.8198,
		Hours:   weekdayHours(),
		SortKey: sortKey,
	}
}

// countingAPI wraps the fixture mock and counts calls per method.
type countingAPI struct {
	places.PlacesAPI

	getPlace       int32
	getCollections int32

	mu          sync.Mutex
	searchFails map[int]error
	searchCalls int
}

func newCountingAPI(fixture *models.Fixture) *countingAPI {
	return &countingAPI{PlacesAPI: places.NewPlacesApiClientMockFromData(fixture)}
}

func (c *countingAPI) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	atomic.AddInt32(&c.getPlace, 1)
	return c.PlacesAPI.GetPlace(ctx, placeID)
}

func (c *countingAPI) GetCollections(ctx context.Context, userID string, maxSortKey *int64, size int) (*models.ListResponse[models.Collection], error) {
	atomic.AddInt32(&c.getCollections, 1)
	return c.PlacesAPI.GetCollections(ctx, userID, maxSortKey, size)
}

// SearchPlaces fails the calls listed in searchFails, counted from 1.
func (c *countingAPI) SearchPlaces(ctx context.Context, query string, maxSortKey *int64, size int) (*models.ListResponse[models.Place], error) {
	c.mu.Lock()
	c.searchCalls++
	err := c.searchFails[c.searchCalls]
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.PlacesAPI.SearchPlaces(ctx, query, maxSortKey, size)
}

func newTestDao() (*redis.RedisPlaceDAO, *db.MockRedisClient) {
	client := db.NewMockRedisClient()
	return redis.NewRedisPlaceDAO(client, time.Hour), client
}

func collectionsFor(userID string, n int) []models.Collection {
	out := make([]models.Collection, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Collection{
			CollectionID: fmt.Sprintf("c%d", i),
			UserID:       userID,
			Name:         fmt.Sprintf("List %d", i),
			SortKey:      int64(i),
		})
	}
	return out
}
