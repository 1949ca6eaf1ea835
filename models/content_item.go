package models

// ContentItem is a block of an editorial content page (text, image or a
// place card).
type ContentItem struct {
	ItemID    string `json:"item_id"`
	ContentID string `json:"content_id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	PlaceID   string `json:"place_id,omitempty"`
	SortKey   int64  `json:"sort_key"`
}
