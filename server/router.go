package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"munch-server/api"
	"munch-server/metrics"
	"munch-server/server/handlers"
)

type Router struct {
	placeHandler      *handlers.PlaceHandler
	collectionHandler *handlers.CollectionHandler
	feedHandler       *handlers.FeedHandler
	voucherHandler    *handlers.VoucherHandler
	router            *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	placeHandler *handlers.PlaceHandler,
	collectionHandler *handlers.CollectionHandler,
	feedHandler *handlers.FeedHandler,
	voucherHandler *handlers.VoucherHandler,
	router *mux.Router) *Router {
	return &Router{
		placeHandler:      placeHandler,
		collectionHandler: collectionHandler,
		feedHandler:       feedHandler,
		voucherHandler:    voucherHandler,
		router:            router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(requestIDMiddleware, metricsMiddleware)

	r.router.HandleFunc("/ping", r.placeHandler.Ping).Methods("GET")
	r.router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={radius km(float)}
	r.router.HandleFunc("/v1/places/nearby", r.placeHandler.GetPlacesNearby).Methods("GET")
	r.router.HandleFunc("/v1/places/{id}", r.placeHandler.GetPlace).Methods("GET")
	r.router.HandleFunc("/v1/places/{id}/hours", r.placeHandler.GetPlaceHours).Methods("GET")
	r.router.HandleFunc("/v1/places/{id}/hours/chart", r.placeHandler.GetPlaceHoursChart).Methods("GET")

	r.router.HandleFunc("/v1/users/{userID}/collections", r.collectionHandler.GetUserCollections).Methods("GET")
	r.router.HandleFunc("/v1/collections/{id}/places", r.collectionHandler.GetCollectionPlaces).Methods("GET")
	r.router.HandleFunc("/v1/contents/{id}/items", r.collectionHandler.GetContentItems).Methods("GET")

	r.router.HandleFunc("/v1/feeds", r.feedHandler.OpenFeed).Methods("POST")
	r.router.HandleFunc("/v1/feeds/{id}/next", r.feedHandler.NextFeedPage).Methods("GET")
	r.router.HandleFunc("/v1/feeds/{id}", r.feedHandler.CloseFeed).Methods("DELETE")

	r.router.HandleFunc("/v1/vouchers/{id}/redeem", r.voucherHandler.RedeemVoucher).Methods("POST")
}

// requestIDMiddleware propagates X-Request-ID to the places API calls made
// while serving the request.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(api.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(api.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTPRequest(route, rec.status)
	})
}
