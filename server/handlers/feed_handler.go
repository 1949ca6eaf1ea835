package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	services "munch-server/service"
)

type FeedHandler struct {
	feedService *services.FeedService
}

func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// OpenFeed handles POST /v1/feeds?query=
func (h *FeedHandler) OpenFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.feedService.Open(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

// NextFeedPage handles GET /v1/feeds/{id}/next
func (h *FeedHandler) NextFeedPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.feedService.Next(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CloseFeed handles DELETE /v1/feeds/{id}
func (h *FeedHandler) CloseFeed(w http.ResponseWriter, r *http.Request) {
	if err := h.feedService.Close(mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
