package repository

import (
	"context"
	"time"

	"panorama-api/domain/model"
)

// IPanorama is the persistence contract for panorama records and their
// ordered panel sets.
type IPanorama interface {
	GetByID(ctx context.Context, id string) (*model.PanoramaImage, error)
	// GetByURL matches original_url or processed_url. ErrNotFound is an
	// expected outcome for images not yet persisted.
	GetByURL(ctx context.Context, url string) (*model.PanoramaImage, error)
	// ListActive and ListArchived order by date_taken desc with id desc as a
	// stable tiebreak for pagination.
	ListActive(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error)
	ListArchived(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error)
	Insert(ctx context.Context, img *model.PanoramaImage) error
	// Update succeeds only for the owning user; a non-matching user id scans
	// as ErrNotFound.
	Update(ctx context.Context, img *model.PanoramaImage) error
	Archive(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// MarkPosted stamps status, posted_at and instagram_post_id together.
	MarkPosted(ctx context.Context, id, postID string, at time.Time) error

	ListPanels(ctx context.Context, imageID string) ([]*model.PanoramaPanel, error)
	// ReplacePanels deletes every panel row for the image and inserts the new
	// set in one pass. The two steps are not atomic; a crash between them
	// leaves zero panels until the next save.
	ReplacePanels(ctx context.Context, imageID string, urls []string) error
	DeletePanels(ctx context.Context, imageID string) error
}
