package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"panorama-api/domain/dto"
	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"
)

// defaultCaption is used when neither an override nor the record's
// description or title yields a caption.
const defaultCaption = "New panorama"

type IInstagramUsecase interface {
	// Post publishes the panorama. The error return covers precondition
	// failures (not found, no usable asset, not configured); an external
	// posting failure is a normal business outcome and comes back as
	// {success:false, error} with a nil error.
	Post(ctx context.Context, imageID, captionOverride, userID string) (*dto.InstagramPostResult, error)
	History(ctx context.Context, imageID string) ([]*model.InstagramPostHistory, error)
}

type instagramUsecase struct {
	cfg         configuration.Instagram
	panoRepo    repository.IPanorama
	historyRepo repository.IInstagramHistory
	credRepo    repository.IInstagramCredential
	client      repository.IInstagramClient
}

func NewInstagramUsecase(
	cfg configuration.Instagram,
	panoRepo repository.IPanorama,
	historyRepo repository.IInstagramHistory,
	credRepo repository.IInstagramCredential,
	client repository.IInstagramClient,
) IInstagramUsecase {
	return &instagramUsecase{cfg: cfg, panoRepo: panoRepo, historyRepo: historyRepo, credRepo: credRepo, client: client}
}

// resolveCredentials picks environment values when configured, filling each
// missing piece from the newest stored snapshot. Returns ErrNotConfigured
// when neither source yields both a token and a business account id.
func (u *instagramUsecase) resolveCredentials(ctx context.Context) (token, businessID string, err error) {
	token = u.cfg.AccessToken
	businessID = u.cfg.BusinessAccountID
	if token == "" || businessID == "" {
		cred, cErr := u.credRepo.Latest(ctx)
		if cErr == nil {
			if token == "" {
				token = cred.AccessToken
			}
			if businessID == "" && cred.InstagramBusinessAccountID != nil {
				businessID = *cred.InstagramBusinessAccountID
			}
		} else if !errors.Is(cErr, repository.ErrNotFound) {
			logger.GetLogger().WithField("error", cErr).Error("credential lookup failed")
		}
	}
	if token == "" || businessID == "" {
		return "", "", repository.ErrNotConfigured
	}
	return token, businessID, nil
}

func resolveCaption(override string, img *model.PanoramaImage) string {
	if override != "" {
		return override
	}
	if img.Description != "" {
		return img.Description
	}
	if img.Title != "" {
		return img.Title
	}
	return defaultCaption
}

func (u *instagramUsecase) Post(ctx context.Context, imageID, captionOverride, userID string) (*dto.InstagramPostResult, error) {
	img, err := u.panoRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	caption := resolveCaption(captionOverride, img)

	panels, err := u.panoRepo.ListPanels(ctx, imageID)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": imageID}).Warn("panel lookup failed; posting single image")
		panels = nil
	}
	panelURLs := make([]string, 0, len(panels))
	for _, p := range panels {
		panelURLs = append(panelURLs, p.PanelURL)
	}
	imageURL := img.BestImageURL()

	if imageURL == "" && len(panelURLs) == 0 {
		return nil, repository.ErrNoUsableAsset
	}

	// Both preconditions hold before the external API is touched.
	token, businessID, err := u.resolveCredentials(ctx)
	if err != nil {
		return nil, err
	}

	var result *model.GraphPublishResult
	var postErr error
	if len(panelURLs) >= 2 {
		result, postErr = u.client.PublishCarousel(ctx, token, businessID, panelURLs, caption)
	} else {
		if imageURL == "" {
			imageURL = panelURLs[0]
		}
		result, postErr = u.client.PublishImage(ctx, token, businessID, imageURL, caption)
	}

	now := time.Now().UTC()
	entry := &model.InstagramPostHistory{
		PanoramaID: imageID,
		Caption:    caption,
		PostedBy:   userID,
		PostedAt:   now,
	}
	if postErr != nil {
		entry.Status = model.HistoryStatusFailed
		msg := postErr.Error()
		entry.ErrorMessage = &msg
		entry.ResultPayload, _ = json.Marshal(map[string]interface{}{"success": false, "error": msg})
	} else {
		entry.Status = model.HistoryStatusPosted
		entry.InstagramPostID = &result.PostID
		if len(result.Raw) > 0 {
			entry.ResultPayload = result.Raw
		} else {
			entry.ResultPayload, _ = json.Marshal(map[string]interface{}{"success": true, "post_id": result.PostID})
		}
	}
	// History is written even when posting failed; a history failure is
	// logged but never changes the reported outcome.
	if hErr := u.historyRepo.Append(ctx, entry); hErr != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": hErr, "image_id": imageID}).Error("post history append failed")
	}

	if postErr != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": postErr, "image_id": imageID}).Warn("instagram publish failed")
		return &dto.InstagramPostResult{Success: false, Error: postErr.Error()}, nil
	}

	// The social post already happened; the local bookkeeping is
	// best-effort and may lag behind on failure.
	if mErr := u.panoRepo.MarkPosted(ctx, imageID, result.PostID, now); mErr != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": mErr, "image_id": imageID}).Error("mark posted failed after successful publish")
	}

	return &dto.InstagramPostResult{Success: true, PostID: result.PostID}, nil
}

func (u *instagramUsecase) History(ctx context.Context, imageID string) ([]*model.InstagramPostHistory, error) {
	return u.historyRepo.ListForPanorama(ctx, imageID)
}
