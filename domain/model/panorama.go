package model

import (
	"encoding/json"
	"time"
)

// Panorama lifecycle statuses. Transitions between draft, ready and private
// are free on edit-save; posted is reached only through a successful
// Instagram publish; archived is reachable from any state and reversible
// only back to draft.
const (
	StatusDraft    = "draft"
	StatusReady    = "ready"
	StatusPosted   = "posted"
	StatusPrivate  = "private"
	StatusArchived = "archived"
)

// ValidStatus reports whether s is a known panorama status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusReady, StatusPosted, StatusPrivate, StatusArchived:
		return true
	}
	return false
}

// CanTransition reports whether an edit-save may move a record from one
// status to another. Edit-save is scoped to draft, ready and private:
// posted is reached only through the publish workflow, and archived is
// entered and left only through the archive/restore operations, which
// maintain the paired archived_at stamp that a plain row update never
// touches.
func CanTransition(from, to string) bool {
	switch from {
	case StatusDraft, StatusReady, StatusPrivate:
	default:
		return false
	}
	switch to {
	case StatusDraft, StatusReady, StatusPrivate:
		return true
	}
	return false
}

// PanoramaImage is one uploaded panorama and its metadata. Tags are joined in
// on read; they are not a column on the row itself.
type PanoramaImage struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	OriginalURL     string          `json:"original_url"`
	ProcessedURL    *string         `json:"processed_url,omitempty"`
	ThumbnailURL    *string         `json:"thumbnail_url,omitempty"`
	PreviewURL      *string         `json:"preview_url,omitempty"`
	PanelCount      *int            `json:"panel_count,omitempty"`
	Title           string          `json:"title"`
	LocationName    string          `json:"location_name"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Description     string          `json:"description"`
	DateTaken       time.Time       `json:"date_taken"`
	Status          string          `json:"status"`
	Adjustments     json.RawMessage `json:"adjustments,omitempty"`
	InstagramPostID *string         `json:"instagram_post_id,omitempty"`
	PostedAt        *time.Time      `json:"posted_at,omitempty"`
	ArchivedAt      *time.Time      `json:"archived_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Tags            []string        `json:"tags"`
}

// BestImageURL resolves the preferred single-image source for publishing:
// processed, then preview, then thumbnail, then original.
func (p *PanoramaImage) BestImageURL() string {
	if p.ProcessedURL != nil && *p.ProcessedURL != "" {
		return *p.ProcessedURL
	}
	if p.PreviewURL != nil && *p.PreviewURL != "" {
		return *p.PreviewURL
	}
	if p.ThumbnailURL != nil && *p.ThumbnailURL != "" {
		return *p.ThumbnailURL
	}
	return p.OriginalURL
}

// AssetURLs returns every stored derived-asset URL of the record, used for
// best-effort storage cleanup during hard delete.
func (p *PanoramaImage) AssetURLs() []string {
	urls := make([]string, 0, 4)
	if p.OriginalURL != "" {
		urls = append(urls, p.OriginalURL)
	}
	for _, u := range []*string{p.ProcessedURL, p.ThumbnailURL, p.PreviewURL} {
		if u != nil && *u != "" {
			urls = append(urls, *u)
		}
	}
	return urls
}

// PanoramaPanel is one ordered slice of a panorama prepared for a carousel
// post. The panel set for an image is always replaced wholesale, never
// patched, so panel_order stays dense and 1-indexed.
type PanoramaPanel struct {
	ID              int64  `json:"id"`
	PanoramaImageID string `json:"panorama_image_id"`
	PanelOrder      int    `json:"panel_order"`
	PanelURL        string `json:"panel_url"`
}
