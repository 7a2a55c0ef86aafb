package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"panorama-api/domain/dto"
	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"

	"github.com/google/uuid"
)

type IPanoramaUsecase interface {
	Get(ctx context.Context, id string) (*model.PanoramaImage, error)
	GetByURL(ctx context.Context, url string) (*model.PanoramaImage, error)
	ListActive(ctx context.Context, page dto.PageRequest) (*dto.Page[*model.PanoramaImage], error)
	ListArchived(ctx context.Context, page dto.PageRequest) (*dto.Page[*model.PanoramaImage], error)
	Save(ctx context.Context, userID string, req *dto.SavePanoramaRequest) (*model.PanoramaImage, error)
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// HardDelete is the alternate (non-archive) workflow: best-effort storage
	// cleanup, then panels and tag associations, then the row itself. Only
	// the final row delete decides the outcome.
	HardDelete(ctx context.Context, id string) error
}

type panoramaUsecase struct {
	panoRepo repository.IPanorama
	tagRepo  repository.ITag
	resolver ITagResolver
	storage  repository.IObjectStorage
}

func NewPanoramaUsecase(panoRepo repository.IPanorama, tagRepo repository.ITag, resolver ITagResolver, storage repository.IObjectStorage) IPanoramaUsecase {
	return &panoramaUsecase{panoRepo: panoRepo, tagRepo: tagRepo, resolver: resolver, storage: storage}
}

// attachTags joins the tag names in. A tag fetch failure degrades to an
// empty list instead of failing the read; missing tag tables log as a
// feature-unavailable warning, everything else as an upstream error.
func (u *panoramaUsecase) attachTags(ctx context.Context, img *model.PanoramaImage) {
	names, err := u.tagRepo.ListForImage(ctx, img.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTagsUnavailable) {
			logger.GetLogger().WithField("image_id", img.ID).Warn("tag storage unavailable; returning empty tag list")
		} else {
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": img.ID}).Error("tag fetch failed; returning empty tag list")
		}
		img.Tags = []string{}
		return
	}
	img.Tags = names
}

func (u *panoramaUsecase) Get(ctx context.Context, id string) (*model.PanoramaImage, error) {
	img, err := u.panoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.attachTags(ctx, img)
	return img, nil
}

func (u *panoramaUsecase) GetByURL(ctx context.Context, url string) (*model.PanoramaImage, error) {
	img, err := u.panoRepo.GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	u.attachTags(ctx, img)
	return img, nil
}

func (u *panoramaUsecase) list(ctx context.Context, page dto.PageRequest,
	fetch func(context.Context, int, int) ([]*model.PanoramaImage, error)) (*dto.Page[*model.PanoramaImage], error) {
	page.Normalize()
	items, err := fetch(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.PanoramaImage{}
	}
	for _, img := range items {
		u.attachTags(ctx, img)
	}
	// hasMore heuristic: a full page implies more. Over-reports when the
	// last page is exactly full; documented, intentionally kept.
	return &dto.Page[*model.PanoramaImage]{
		Items:   items,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: len(items) == page.Limit,
	}, nil
}

func (u *panoramaUsecase) ListActive(ctx context.Context, page dto.PageRequest) (*dto.Page[*model.PanoramaImage], error) {
	return u.list(ctx, page, u.panoRepo.ListActive)
}

func (u *panoramaUsecase) ListArchived(ctx context.Context, page dto.PageRequest) (*dto.Page[*model.PanoramaImage], error) {
	return u.list(ctx, page, u.panoRepo.ListArchived)
}

func parseDateTaken(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logger.GetLogger().WithField("date_taken", s).Warn("unparseable date_taken; using current time")
	return time.Now().UTC()
}

// Save upserts keyed on presence of a non-empty id. The row write happens
// first, then tags and panels; there is no rollback of a partially-completed
// save, each sub-step failure is logged and returned.
func (u *panoramaUsecase) Save(ctx context.Context, userID string, req *dto.SavePanoramaRequest) (*model.PanoramaImage, error) {
	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	img := &model.PanoramaImage{
		ID:           req.ID,
		UserID:       userID,
		OriginalURL:  req.OriginalURL,
		ProcessedURL: req.ProcessedURL,
		ThumbnailURL: req.ThumbnailURL,
		PreviewURL:   req.PreviewURL,
		PanelCount:   req.PanelCount,
		Title:        req.Title,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Description:  req.Description,
		DateTaken:    parseDateTaken(req.DateTaken),
		Status:       status,
		Adjustments:  req.Adjustments,
	}

	if img.ID == "" {
		// posted and archived are reached through their own workflows.
		if status == model.StatusPosted || status == model.StatusArchived {
			return nil, fmt.Errorf("cannot create a panorama with status %q", status)
		}
		img.ID = uuid.NewString()
		if err := u.panoRepo.Insert(ctx, img); err != nil {
			return nil, err
		}
	} else {
		existing, err := u.panoRepo.GetByID(ctx, img.ID)
		if err != nil {
			return nil, err
		}
		if !model.CanTransition(existing.Status, status) {
			return nil, fmt.Errorf("status transition %s -> %s not allowed", existing.Status, status)
		}
		if err := u.panoRepo.Update(ctx, img); err != nil {
			return nil, err
		}
	}

	if req.Tags != nil {
		if err := u.resolver.ReplaceForImage(ctx, img.ID, req.Tags); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": img.ID}).Error("tag replace failed during save")
			return nil, err
		}
	}
	if req.PanelURLs != nil {
		if err := u.panoRepo.ReplacePanels(ctx, img.ID, req.PanelURLs); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": img.ID}).Error("panel replace failed during save")
			return nil, err
		}
	}

	// Return the complete record with resolved tags joined back in.
	return u.Get(ctx, img.ID)
}

func (u *panoramaUsecase) Archive(ctx context.Context, id string) error {
	return u.panoRepo.Archive(ctx, id, time.Now().UTC())
}

func (u *panoramaUsecase) Restore(ctx context.Context, id string) error {
	return u.panoRepo.Restore(ctx, id)
}

func (u *panoramaUsecase) HardDelete(ctx context.Context, id string) error {
	img, err := u.panoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	panels, err := u.panoRepo.ListPanels(ctx, id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": id}).Warn("panel lookup failed during delete; continuing")
	}

	urls := img.AssetURLs()
	for _, p := range panels {
		urls = append(urls, p.PanelURL)
	}
	for _, u2 := range urls {
		bucket, key, ok := u.storage.ObjectKeyFromURL(u2)
		if !ok {
			continue
		}
		if err := u.storage.Delete(ctx, bucket, key); err != nil {
			// Best-effort: keep going past individual storage failures.
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "bucket": bucket, "key": key}).Warn("asset delete failed; continuing")
		}
	}

	if err := u.panoRepo.DeletePanels(ctx, id); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": id}).Warn("panel row delete failed; continuing")
	}
	if err := u.tagRepo.DeleteForImage(ctx, id); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": id}).Warn("tag association delete failed; continuing")
	}
	return u.panoRepo.Delete(ctx, id)
}
