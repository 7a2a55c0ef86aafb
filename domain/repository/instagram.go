package repository

import (
	"context"

	"panorama-api/domain/model"
)

// IInstagramHistory is the append-only publish audit log.
type IInstagramHistory interface {
	Append(ctx context.Context, entry *model.InstagramPostHistory) error
	ListForPanorama(ctx context.Context, panoramaID string) ([]*model.InstagramPostHistory, error)
}

// IInstagramCredential stores token snapshots append-style; Latest returns
// the newest row or ErrNotFound.
type IInstagramCredential interface {
	Append(ctx context.Context, cred *model.InstagramCredential) error
	Latest(ctx context.Context) (*model.InstagramCredential, error)
}

// IInstagramClient is the Instagram Graph API surface this service consumes.
type IInstagramClient interface {
	// PublishImage posts a single image and returns the media id.
	PublishImage(ctx context.Context, accessToken, businessAccountID, imageURL, caption string) (*model.GraphPublishResult, error)
	// PublishCarousel posts the ordered panel URLs as one carousel.
	PublishCarousel(ctx context.Context, accessToken, businessAccountID string, panelURLs []string, caption string) (*model.GraphPublishResult, error)
	// ValidateToken returns false (not an error) for an invalid token; the
	// error return is reserved for transport failures.
	ValidateToken(ctx context.Context, accessToken string) (bool, error)
	// RefreshToken exchanges a valid long-lived token for a refreshed one.
	// Callers validate first; validity is not re-checked here.
	RefreshToken(ctx context.Context, accessToken string) (*model.RefreshedToken, error)
}
