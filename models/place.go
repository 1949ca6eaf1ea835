package models

import (
	"fmt"

	"munch-server/hours"
)

// Place is a restaurant as returned by the places API.
type Place struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Cuisines   []string `json:"cuisines,omitempty"`
	PriceLevel int      `json:"price_level,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`

	Hours []hours.WeeklyHourInterval `json:"hours"`

	// Position in search results, used as the paging cursor.
	SortKey int64 `json:"sort_key"`
}

func (p *Place) ToString() string {
	return fmt.Sprintf("Place(id=%s, name=%s, address=%s, lat=%f, lng=%f)",
		p.PlaceID, p.Name, p.Address, p.Lat, p.Lng)
}
