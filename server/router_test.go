package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch-server/api"
	"munch-server/api/places"
	"munch-server/dao/redis"
	"munch-server/db"
	"munch-server/hours"
	"munch-server/models"
	"munch-server/server/handlers"
	services "munch-server/service"
)

func testRouter(t *testing.T) *mux.Router {
	t.Helper()

	open := []hours.WeeklyHourInterval{{Day: hours.Monday, Open: "09:00", Close: "18:00"}}
	fixture := &models.Fixture{
		Places: []models.Place{
			{PlaceID: "p1", Name: "Kopi Corner", Lat: 1.3521, Lng: 103.8198, Hours: open, SortKey: 2},
			{PlaceID: "bad", Name: "Broken Hours", Hours: []hours.WeeklyHourInterval{{Day: hours.Monday, Open: "9am", Close: "18:00"}}, SortKey: 1},
		},
		Collections: []models.Collection{
			{CollectionID: "c1", UserID: "u1", SortKey: 3},
			{CollectionID: "c2", UserID: "u1", SortKey: 2},
			{CollectionID: "c3", UserID: "u1", SortKey: 1},
		},
		CollectionPlaces: []models.CollectionPlace{{CollectionID: "c1", PlaceID: "p1", SortKey: 1}},
		ContentItems:     []models.ContentItem{{ItemID: "i1", ContentID: "guide", Type: "text", SortKey: 1}},
	}
	placesApi := places.NewPlacesApiClientMockFromData(fixture)
	dao := redis.NewRedisPlaceDAO(db.NewMockRedisClient(), time.Hour)
	evaluator := hours.NewEvaluator(hours.FixedClock{T: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}, nil, time.UTC)

	placeService := services.NewPlaceService(dao, placesApi, evaluator)
	collectionService := services.NewCollectionService(placesApi, 2)
	feedService := services.NewFeedService(placesApi, 1, time.Minute)
	voucherService := services.NewVoucherService(placesApi)

	muxRouter := mux.NewRouter()
	NewRouter(
		handlers.NewPlaceHandler(placeService),
		handlers.NewCollectionHandler(collectionService),
		handlers.NewFeedHandler(feedService),
		handlers.NewVoucherHandler(voucherService),
		muxRouter,
	).RegisterRoutes()
	return muxRouter
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_RegisterRoutes(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		statusCode int
		contains   string
	}{
		{"Ping Route", "GET", "/ping", "", http.StatusOK, `"pong"`},
		{"Get Place", "GET", "/v1/places/p1", "", http.StatusOK, `"open_state":"open"`},
		{"Get Place Not Found", "GET", "/v1/places/missing", "", http.StatusNotFound, `"not_found"`},
		{"Get Place Hours", "GET", "/v1/places/p1/hours", "", http.StatusOK, `"intervals"`},
		{"Malformed Hours", "GET", "/v1/places/bad/hours", "", http.StatusBadGateway, `"malformed_hours"`},
		{"Hours Chart", "GET", "/v1/places/p1/hours/chart", "", http.StatusOK, "Kopi Corner"},
		{"Nearby Invalid Args", "GET", "/v1/places/nearby?lat=x&lon=1&radius=1", "", http.StatusBadRequest, "lat"},
		{"Nearby NaN Lat", "GET", "/v1/places/nearby?lat=NaN&lon=1&radius=1", "", http.StatusBadRequest, "lat"},
		{"Nearby Infinite Lon", "GET", "/v1/places/nearby?lat=1&lon=-Inf&radius=1", "", http.StatusBadRequest, "lon"},
		{"Nearby Infinite Radius", "GET", "/v1/places/nearby?lat=1&lon=1&radius=Inf", "", http.StatusBadRequest, "radius"},
		{"User Collections", "GET", "/v1/users/u1/collections", "", http.StatusOK, `"empty":false`},
		{"No Collections", "GET", "/v1/users/nobody/collections", "", http.StatusOK, `{"data":[],"empty":true}`},
		{"Collection Places", "GET", "/v1/collections/c1/places", "", http.StatusOK, `"Kopi Corner"`},
		{"Content Items", "GET", "/v1/contents/guide/items", "", http.StatusOK, `"i1"`},
		{"Redeem Voucher", "POST", "/v1/vouchers/v1/redeem", `{"user_id":"u1"}`, http.StatusOK, `"redeemed"`},
		{"Redeem Voucher Without User", "POST", "/v1/vouchers/v1/redeem", `{}`, http.StatusBadRequest, "user_id"},
		{"Unknown Feed", "GET", "/v1/feeds/nope/next", "", http.StatusNotFound, "feed_not_found"},
		{"Metrics", "GET", "/metrics", "", http.StatusOK, "munch_http_requests_total"},
		{"Invalid Route", "GET", "/invalid", "", http.StatusNotFound, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := do(router, test.method, test.path, test.body)

			assert.Equal(t, test.statusCode, rr.Code, rr.Body.String())
			if test.contains != "" {
				assert.Contains(t, rr.Body.String(), test.contains)
			}
		})
	}
}

func TestRouter_RequestID(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(api.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get(api.RequestIDHeader))

	rr = do(router, "GET", "/ping", "")
	assert.NotEmpty(t, rr.Header().Get(api.RequestIDHeader))
}

func TestRouter_FeedLifecycle(t *testing.T) {
	router := testRouter(t)

	rr := do(router, "POST", "/v1/feeds?query=", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var page services.FeedPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].PlaceID)

	rr = do(router, "GET", "/v1/feeds/"+page.ID+"/next", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	require.Len(t, page.NewItems, 1)
	assert.Equal(t, "bad", page.NewItems[0].PlaceID)

	rr = do(router, "DELETE", "/v1/feeds/"+page.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(router, "GET", "/v1/feeds/"+page.ID+"/next", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_NearbyUsesCache(t *testing.T) {
	router := testRouter(t)

	// Reading the place caches it.
	require.Equal(t, http.StatusOK, do(router, "GET", "/v1/places/p1", "").Code)

	rr := do(router, "GET", "/v1/places/nearby?lat=1.3521&lon=103.8198&radius=1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data []services.PlaceView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, hours.StateOpen, body.Data[0].OpenState)
}
