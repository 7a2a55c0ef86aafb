package dto

import "encoding/json"

// SavePanoramaRequest is the body of POST /api/panoramas and
// PUT /api/panoramas/:id. Tags and panel URLs are optional; when present the
// stored sets are fully replaced.
type SavePanoramaRequest struct {
	ID           string          `json:"id,omitempty"`
	OriginalURL  string          `json:"original_url" binding:"required"`
	ProcessedURL *string         `json:"processed_url,omitempty"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
	PreviewURL   *string         `json:"preview_url,omitempty"`
	PanelCount   *int            `json:"panel_count,omitempty"`
	Title        string          `json:"title" binding:"required"`
	LocationName string          `json:"location_name"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Description  string          `json:"description"`
	DateTaken    string          `json:"date_taken"`
	Status       string          `json:"status"`
	Adjustments  json.RawMessage `json:"adjustments,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	PanelURLs    []string        `json:"panel_urls,omitempty"`
}

// PageRequest carries list pagination. A non-positive limit falls back to the
// default; a negative offset is floored to 0.
type PageRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

const DefaultPageLimit = 24

// Normalize applies the documented defaults and floors.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Page is one page of list results. HasMore uses the page-length heuristic
// (len(items) == limit) and over-reports when the last page is exactly full.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}
