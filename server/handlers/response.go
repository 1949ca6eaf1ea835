package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"munch-server/api"
	"munch-server/hours"
	"munch-server/logger"
	services "munch-server/service"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Component("Handlers").Error().Err(err).Msg("error encoding response")
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps service and upstream errors to HTTP answers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var mte *hours.MalformedTimeError
	var statusErr *api.StatusError

	switch {
	case errors.Is(err, api.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, services.ErrFeedNotFound):
		writeErrorCode(w, http.StatusNotFound, "feed_not_found", err.Error())
	case errors.Is(err, services.ErrMissingUser):
		writeErrorCode(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.As(err, &mte):
		writeErrorCode(w, http.StatusBadGateway, "malformed_hours", mte.Error())
	case errors.Is(err, api.ErrTimeout):
		writeErrorCode(w, http.StatusGatewayTimeout, "upstream_timeout", "places API timed out")
	case errors.Is(err, api.ErrUnavailable):
		writeErrorCode(w, http.StatusServiceUnavailable, "upstream_unavailable", "places API unavailable")
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500:
		writeErrorCode(w, statusErr.StatusCode, statusErr.Code, statusErr.Message)
	case errors.As(err, &statusErr):
		writeErrorCode(w, http.StatusBadGateway, statusErr.Code, statusErr.Message)
	default:
		logger.Component("Handlers").Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeErrorCode(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	v, err := strconv.ParseFloat(vals.Get(name), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}
