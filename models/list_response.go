package models

// ListResponse is the envelope of every paged endpoint of the places API.
// Next is the sort key the server suggests for the following page.
type ListResponse[T any] struct {
	Data []T    `json:"data"`
	Next *int64 `json:"next"`
}

// Fixture is the on-disk dataset served by the mock places API.
type Fixture struct {
	Places           []Place           `json:"places"`
	Collections      []Collection      `json:"collections"`
	CollectionPlaces []CollectionPlace `json:"collection_places"`
	ContentItems     []ContentItem     `json:"content_items"`
}
