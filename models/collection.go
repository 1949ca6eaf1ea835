package models

import "time"

// Collection is a user's named list of places.
type Collection struct {
	CollectionID string    `json:"collection_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Privacy      string    `json:"privacy,omitempty"`
	Count        int       `json:"count"`
	SortKey      int64     `json:"sort_key"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CollectionPlace is one entry of a collection.
type CollectionPlace struct {
	CollectionID string    `json:"collection_id"`
	PlaceID      string    `json:"place_id"`
	Place        Place     `json:"place"`
	Note         string    `json:"note,omitempty"`
	SortKey      int64     `json:"sort_key"`
	AddedAt      time.Time `json:"added_at"`
}
