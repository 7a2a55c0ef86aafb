package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/cache"
	"panorama-api/infrastructure/logger"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
)

// NormalizeSlug produces the canonical slug for a tag name: lowercase, trim,
// internal whitespace runs collapsed to a single hyphen, everything outside
// [a-z0-9-] stripped. Idempotent.
func NormalizeSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugInvalid.ReplaceAllString(s, "")
}

type ITagResolver interface {
	// GetOrCreate resolves names to canonical tag ids, creating missing rows.
	// A name whose lookup or insert fails is skipped, not fatal.
	GetOrCreate(ctx context.Context, names []string) ([]int64, error)
	// ReplaceForImage rewrites the image's association set wholesale:
	// delete-all, then bulk insert. Not atomic across the two steps.
	ReplaceForImage(ctx context.Context, imageID string, names []string) error
	// ListAll returns distinct tag names, usage_count desc then name asc.
	ListAll(ctx context.Context) ([]string, error)
}

type tagResolver struct {
	tagRepo  repository.ITag
	tagCache *cache.TagCache
}

func NewTagResolver(tagRepo repository.ITag, tagCache *cache.TagCache) ITagResolver {
	return &tagResolver{tagRepo: tagRepo, tagCache: tagCache}
}

func (r *tagResolver) GetOrCreate(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		slug := NormalizeSlug(trimmed)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		tag, err := r.tagRepo.GetBySlug(ctx, slug)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.GetLogger().WithFields(map[string]interface{}{"error": err, "slug": slug}).Warn("tag lookup failed; skipping")
				continue
			}
			// First writer wins on display casing.
			tag = &model.Tag{Name: trimmed, Slug: slug}
			if err := r.tagRepo.Insert(ctx, tag); err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{"error": err, "slug": slug}).Warn("tag insert failed; skipping")
				continue
			}
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (r *tagResolver) ReplaceForImage(ctx context.Context, imageID string, names []string) error {
	if err := r.tagRepo.DeleteForImage(ctx, imageID); err != nil {
		return err
	}
	defer r.tagCache.Invalidate(ctx)

	nonEmpty := false
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		// Image now has zero tags; still recount so counts stay exact.
		if err := r.tagRepo.RecountUsage(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("tag usage recount failed")
		}
		return nil
	}

	ids, err := r.GetOrCreate(ctx, names)
	if err != nil {
		return err
	}
	if err := r.tagRepo.InsertImageTags(ctx, imageID, ids); err != nil {
		return err
	}
	if err := r.tagRepo.RecountUsage(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("tag usage recount failed")
	}
	return nil
}

func (r *tagResolver) ListAll(ctx context.Context) ([]string, error) {
	if names, ok := r.tagCache.GetNames(ctx); ok {
		return names, nil
	}
	tags, err := r.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	r.tagCache.SetNames(ctx, names)
	return names, nil
}
