package repository

import (
	"context"

	"panorama-api/domain/model"
)

// ITag is the persistence contract for global tags and the per-image
// association set.
type ITag interface {
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	Insert(ctx context.Context, tag *model.Tag) error
	// ListAll orders by usage_count desc, then name asc.
	ListAll(ctx context.Context) ([]*model.Tag, error)
	// ListForImage returns the display names of the image's tags.
	// ErrTagsUnavailable is returned when the backing tables are missing.
	ListForImage(ctx context.Context, imageID string) ([]string, error)
	DeleteForImage(ctx context.Context, imageID string) error
	InsertImageTags(ctx context.Context, imageID string, tagIDs []int64) error
	// RecountUsage rewrites usage_count from the association table.
	RecountUsage(ctx context.Context) error
}
