package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	services "munch-server/service"
	"munch-server/util"
)

const (
	LAT_QUERY_ARG    = "lat"
	LON_QUERY_ARG    = "lon"
	RADIUS_QUERY_ARG = "radius"
)

type PlaceHandler struct {
	placeService *services.PlaceService
}

func NewPlaceHandler(placeService *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// GetPlacesNearby handles GET /v1/places/nearby?lat=&lon=&radius=
func (h *PlaceHandler) GetPlacesNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_request", "Invalid argument "+LAT_QUERY_ARG)
		return
	}
	lon, err := parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_request", "Invalid argument "+LON_QUERY_ARG)
		return
	}
	radius, err := parseArgFloat64(vals, RADIUS_QUERY_ARG)
	if err != nil || radius <= 0 {
		writeErrorCode(w, http.StatusBadRequest, "invalid_request", "Invalid argument "+RADIUS_QUERY_ARG)
		return
	}

	views, err := h.placeService.GetPlacesNearby(r.Context(), lat, lon, radius)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": views})
}

// GetPlace handles GET /v1/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	view, err := h.placeService.GetPlaceView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetPlaceHours handles GET /v1/places/{id}/hours
func (h *PlaceHandler) GetPlaceHours(w http.ResponseWriter, r *http.Request) {
	placeHours, err := h.placeService.GetPlaceHours(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, placeHours)
}

// GetPlaceHoursChart handles GET /v1/places/{id}/hours/chart
func (h *PlaceHandler) GetPlaceHoursChart(w http.ResponseWriter, r *http.Request) {
	p, err := h.placeService.GetPlace(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderWeeklySchedule(&buf, p.Name, p.Hours); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Ping handles GET /ping
func (h *PlaceHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}
