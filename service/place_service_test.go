package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch-server/api"
	"munch-server/hours"
	"munch-server/models"
)

func TestPlaceService_GetPlace_CachesThrough(t *testing.T) {
	apiClient := newCountingAPI(&models.Fixture{Places: []models.Place{testPlace("p1", 1)}})
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, apiClient, testEvaluator())
	ctx := context.Background()

	first, err := svc.GetPlace(ctx, "p1")
	require.NoError(t, err)
	second, err := svc.GetPlace(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, first.PlaceID, second.PlaceID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&apiClient.getPlace))
}

func TestPlaceService_GetPlace_NotFound(t *testing.T) {
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, newCountingAPI(&models.Fixture{}), testEvaluator())

	_, err := svc.GetPlace(context.Background(), "missing")

	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestPlaceService_GetPlaceView(t *testing.T) {
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, newCountingAPI(&models.Fixture{Places: []models.Place{testPlace("p1", 1)}}), testEvaluator())

	view, err := svc.GetPlaceView(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, hours.StateOpen, view.OpenState)
	require.Len(t, view.Schedule, 7)
	assert.Equal(t, "9:00am - 6:00pm", view.Schedule[0].Hours)
	assert.Equal(t, "Closed", view.Schedule[2].Hours)
}

func TestPlaceService_GetPlaceHours_Malformed(t *testing.T) {
	p := testPlace("p1", 1)
	p.Hours = []hours.WeeklyHourInterval{{Day: hours.Monday, Open: "9", Close: "18:00"}}
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, newCountingAPI(&models.Fixture{Places: []models.Place{p}}), testEvaluator())

	_, err := svc.GetPlaceHours(context.Background(), "p1")

	var mte *hours.MalformedTimeError
	require.True(t, errors.As(err, &mte))
	assert.Equal(t, "9", mte.Value)
}

func TestPlaceService_GetPlaceHours_NoHours(t *testing.T) {
	p := testPlace("p1", 1)
	p.Hours = nil
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, newCountingAPI(&models.Fixture{Places: []models.Place{p}}), testEvaluator())

	h, err := svc.GetPlaceHours(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, hours.StateNone, h.OpenState)
	assert.NotNil(t, h.Intervals)
}

func TestPlaceService_GetPlacesNearby(t *testing.T) {
	dao, _ := newTestDao()
	svc := NewPlaceService(dao, newCountingAPI(&models.Fixture{}), testEvaluator())
	ctx := context.Background()

	broken := testPlace("broken", 2)
	broken.Hours = []hours.WeeklyHourInterval{{Day: hours.Monday, Open: "late", Close: "18:00"}}
	require.NoError(t, svc.CachePlace(ctx, testPlace("ok", 1)))
	require.NoError(t, svc.CachePlace(ctx, broken))

	views, err := svc.GetPlacesNearby(ctx, 1.3521, 103.8198, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	states := map[string]hours.OpenState{}
	for _, v := range views {
		states[v.PlaceID] = v.OpenState
	}
	assert.Equal(t, hours.StateOpen, states["ok"])
	assert.Equal(t, hours.OpenState(""), states["broken"])
}
