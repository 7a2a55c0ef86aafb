package persistence

import (
	"context"
	"database/sql"
	"errors"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"

	"github.com/lib/pq"
)

// TagRepository implements global tag rows and the per-image association set.
type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository { return &TagRepository{db: db} }

// undefined_table; mapped once here so callers only ever see the typed
// ErrTagsUnavailable, never a backend error code.
const pqUndefinedTable = "42P01"

func mapTagErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUndefinedTable {
		return repository.ErrTagsUnavailable
	}
	return err
}

func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, slug, usage_count FROM tags WHERE slug=$1`, slug)
	t := &model.Tag{}
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.UsageCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, mapTagErr(err)
	}
	return t, nil
}

func (r *TagRepository) Insert(ctx context.Context, tag *model.Tag) error {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name, slug, usage_count) VALUES ($1,$2,$3) RETURNING id`,
		tag.Name, tag.Slug, tag.UsageCount)
	if err := row.Scan(&tag.ID); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "slug": tag.Slug}).Error("insert tag failed")
		return mapTagErr(err)
	}
	return nil
}

func (r *TagRepository) ListAll(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, usage_count FROM tags ORDER BY usage_count DESC, name ASC`)
	if err != nil {
		return nil, mapTagErr(err)
	}
	defer rows.Close()
	var tags []*model.Tag
	for rows.Next() {
		t := &model.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.UsageCount); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) ListForImage(ctx context.Context, imageID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.name FROM tags t JOIN image_tags it ON it.tag_id = t.id WHERE it.image_id=$1 ORDER BY t.name ASC`,
		imageID)
	if err != nil {
		return nil, mapTagErr(err)
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *TagRepository) DeleteForImage(ctx context.Context, imageID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM image_tags WHERE image_id=$1`, imageID); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": imageID}).Error("delete image tags failed")
		return mapTagErr(err)
	}
	return nil
}

func (r *TagRepository) InsertImageTags(ctx context.Context, imageID string, tagIDs []int64) error {
	for _, id := range tagIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO image_tags (image_id, tag_id) VALUES ($1,$2) ON CONFLICT (image_id, tag_id) DO NOTHING`,
			imageID, id)
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": imageID, "tag_id": id}).Error("insert image tag failed")
			return mapTagErr(err)
		}
	}
	return nil
}

// RecountUsage rewrites usage_count from the association table. Runs after
// every tag-set rewrite so counts stay exact without a database trigger.
func (r *TagRepository) RecountUsage(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tags SET usage_count = c.n
		 FROM (SELECT tag_id, COUNT(*) AS n FROM image_tags GROUP BY tag_id) c
		 WHERE tags.id = c.tag_id`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("recount tag usage failed")
		return mapTagErr(err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE tags SET usage_count = 0 WHERE id NOT IN (SELECT DISTINCT tag_id FROM image_tags)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("zero unused tag counts failed")
		return mapTagErr(err)
	}
	return nil
}

var _ repository.ITag = (*TagRepository)(nil)
