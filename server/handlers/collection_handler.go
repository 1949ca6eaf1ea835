package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	services "munch-server/service"
)

// listResponse is the body of every drained list route.
type listResponse[T any] struct {
	Data  []T  `json:"data"`
	Empty bool `json:"empty"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items, Empty: len(items) == 0}
}

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// GetUserCollections handles GET /v1/users/{userID}/collections
func (h *CollectionHandler) GetUserCollections(w http.ResponseWriter, r *http.Request) {
	items, err := h.collectionService.GetUserCollections(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items))
}

// GetCollectionPlaces handles GET /v1/collections/{id}/places
func (h *CollectionHandler) GetCollectionPlaces(w http.ResponseWriter, r *http.Request) {
	items, err := h.collectionService.GetCollectionPlaces(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items))
}

// GetContentItems handles GET /v1/contents/{id}/items
func (h *CollectionHandler) GetContentItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.collectionService.GetContentItems(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items))
}
