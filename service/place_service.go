package services

import (
	"context"

	"munch-server/api/places"
	"munch-server/dao/redis"
	"munch-server/hours"
	"munch-server/logger"
	"munch-server/metrics"
	"munch-server/models"
)

// PlaceView is a place with its hours already evaluated.
type PlaceView struct {
	models.Place
	OpenState hours.OpenState `json:"open_state,omitempty"`
	Schedule  []hours.DayLine `json:"schedule,omitempty"`
}

// PlaceHours is the hours section of a place.
type PlaceHours struct {
	PlaceID   string                     `json:"place_id"`
	OpenState hours.OpenState            `json:"open_state"`
	Schedule  []hours.DayLine            `json:"schedule"`
	Intervals []hours.WeeklyHourInterval `json:"intervals"`
}

type PlaceService struct {
	placeDao  *redis.RedisPlaceDAO
	placesApi places.PlacesAPI
	evaluator *hours.Evaluator
}

// NewPlaceService constructs a new PlaceService with Redis dependency injection.
func NewPlaceService(
	placeDao *redis.RedisPlaceDAO,
	placesApi places.PlacesAPI,
	evaluator *hours.Evaluator) *PlaceService {

	return &PlaceService{
		placeDao:  placeDao,
		placesApi: placesApi,
		evaluator: evaluator,
	}
}

// GetPlace reads the place from the cache, falling back to the places API
// and caching the answer.
func (ps *PlaceService) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	log := logger.Component("PlaceService")

	cached, err := ps.placeDao.GetPlace(ctx, placeID)
	if err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("cache read failed, using places API")
	}
	if cached != nil {
		metrics.RecordCacheHit()
		return cached, nil
	}
	metrics.RecordCacheMiss()

	p, err := ps.placesApi.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if err := ps.placeDao.UpsertPlace(ctx, *p); err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("failed to cache place")
	}
	return p, nil
}

// GetPlaceView returns the place with its open state and grouped schedule.
func (ps *PlaceService) GetPlaceView(ctx context.Context, placeID string) (*PlaceView, error) {
	p, err := ps.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	state, err := ps.evaluator.IsOpenNow(p.Hours)
	if err != nil {
		return nil, err
	}
	schedule, err := hours.GroupedSchedule(p.Hours)
	if err != nil {
		return nil, err
	}
	return &PlaceView{Place: *p, OpenState: state, Schedule: schedule.Days()}, nil
}

func (ps *PlaceService) GetPlaceHours(ctx context.Context, placeID string) (*PlaceHours, error) {
	p, err := ps.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	state, err := ps.evaluator.IsOpenNow(p.Hours)
	if err != nil {
		return nil, err
	}
	schedule, err := hours.GroupedSchedule(p.Hours)
	if err != nil {
		return nil, err
	}
	intervals := p.Hours
	if intervals == nil {
		intervals = []hours.WeeklyHourInterval{}
	}
	return &PlaceHours{
		PlaceID:   p.PlaceID,
		OpenState: state,
		Schedule:  schedule.Days(),
		Intervals: intervals,
	}, nil
}

// GetPlacesNearby returns cached places within radius km. A place whose
// hours cannot be parsed is still listed, without an open state.
func (ps *PlaceService) GetPlacesNearby(ctx context.Context, lat, lon, radius float64) ([]PlaceView, error) {
	log := logger.Component("PlaceService")

	nearby, err := ps.placeDao.GetNearbyPlaces(ctx, lat, lon, radius)
	if err != nil {
		return nil, err
	}

	views := make([]PlaceView, 0, len(nearby))
	for _, p := range nearby {
		view := PlaceView{Place: p}
		state, err := ps.evaluator.IsOpenNow(p.Hours)
		if err != nil {
			log.Warn().Err(err).Str("place_id", p.PlaceID).Msg("skipping open state")
		} else {
			view.OpenState = state
		}
		views = append(views, view)
	}
	return views, nil
}

// CachePlace stores a place fetched elsewhere, e.g. from a collection.
func (ps *PlaceService) CachePlace(ctx context.Context, p models.Place) error {
	return ps.placeDao.UpsertPlace(ctx, p)
}
