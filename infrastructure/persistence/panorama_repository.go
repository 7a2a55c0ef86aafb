package persistence

import (
	"context"
	"database/sql"
	"time"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"
)

// PanoramaRepository implements panorama persistence over database/sql.
type PanoramaRepository struct {
	db *sql.DB
}

func NewPanoramaRepository(db *sql.DB) *PanoramaRepository { return &PanoramaRepository{db: db} }

const panoramaColumns = `id, user_id, original_url, processed_url, thumbnail_url, preview_url, panel_count,
	title, location_name, latitude, longitude, description, date_taken, status, adjustments,
	instagram_post_id, posted_at, archived_at, created_at, updated_at`

func scanPanorama(row interface {
	Scan(dest ...interface{}) error
}) (*model.PanoramaImage, error) {
	img := &model.PanoramaImage{}
	var (
		processedURL, thumbnailURL, previewURL sql.NullString
		panelCount                             sql.NullInt64
		adjustments                            []byte
		instagramPostID                        sql.NullString
		postedAt, archivedAt                   sql.NullTime
	)
	if err := row.Scan(
		&img.ID, &img.UserID, &img.OriginalURL, &processedURL, &thumbnailURL, &previewURL, &panelCount,
		&img.Title, &img.LocationName, &img.Latitude, &img.Longitude, &img.Description, &img.DateTaken,
		&img.Status, &adjustments, &instagramPostID, &postedAt, &archivedAt, &img.CreatedAt, &img.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if processedURL.Valid {
		v := processedURL.String
		img.ProcessedURL = &v
	}
	if thumbnailURL.Valid {
		v := thumbnailURL.String
		img.ThumbnailURL = &v
	}
	if previewURL.Valid {
		v := previewURL.String
		img.PreviewURL = &v
	}
	if panelCount.Valid {
		v := int(panelCount.Int64)
		img.PanelCount = &v
	}
	if len(adjustments) > 0 {
		img.Adjustments = adjustments
	}
	if instagramPostID.Valid {
		v := instagramPostID.String
		img.InstagramPostID = &v
	}
	if postedAt.Valid {
		v := postedAt.Time
		img.PostedAt = &v
	}
	if archivedAt.Valid {
		v := archivedAt.Time
		img.ArchivedAt = &v
	}
	return img, nil
}

func (r *PanoramaRepository) GetByID(ctx context.Context, id string) (*model.PanoramaImage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+panoramaColumns+` FROM panorama_images WHERE id=$1`, id)
	img, err := scanPanorama(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		logger.GetLogger().WithField("error", err).Error("query panorama by id failed")
		return nil, err
	}
	return img, nil
}

func (r *PanoramaRepository) GetByURL(ctx context.Context, url string) (*model.PanoramaImage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+panoramaColumns+` FROM panorama_images WHERE original_url=$1 OR processed_url=$1`, url)
	img, err := scanPanorama(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// Expected for images not yet persisted; the caller stays silent.
			return nil, repository.ErrNotFound
		}
		logger.GetLogger().WithField("error", err).Error("query panorama by url failed")
		return nil, err
	}
	return img, nil
}

func (r *PanoramaRepository) list(ctx context.Context, where string, limit, offset int) ([]*model.PanoramaImage, error) {
	q := `SELECT ` + panoramaColumns + ` FROM panorama_images WHERE ` + where + `
	ORDER BY date_taken DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("list panoramas failed")
		return nil, err
	}
	defer rows.Close()
	var out []*model.PanoramaImage
	for rows.Next() {
		img, err := scanPanorama(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *PanoramaRepository) ListActive(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error) {
	return r.list(ctx, `status <> 'archived'`, limit, offset)
}

func (r *PanoramaRepository) ListArchived(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error) {
	return r.list(ctx, `status = 'archived'`, limit, offset)
}

func (r *PanoramaRepository) Insert(ctx context.Context, img *model.PanoramaImage) error {
	now := time.Now().UTC()
	if img.CreatedAt.IsZero() {
		img.CreatedAt = now
	}
	img.UpdatedAt = now
	q := `INSERT INTO panorama_images (` + panoramaColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`
	_, err := r.db.ExecContext(ctx, q,
		img.ID, img.UserID, img.OriginalURL, img.ProcessedURL, img.ThumbnailURL, img.PreviewURL, img.PanelCount,
		img.Title, img.LocationName, img.Latitude, img.Longitude, img.Description, img.DateTaken, img.Status,
		[]byte(img.Adjustments), img.InstagramPostID, img.PostedAt, img.ArchivedAt, img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": img.ID}).Error("insert panorama failed")
	}
	return err
}

func (r *PanoramaRepository) Update(ctx context.Context, img *model.PanoramaImage) error {
	img.UpdatedAt = time.Now().UTC()
	q := `UPDATE panorama_images SET
		original_url=$1, processed_url=$2, thumbnail_url=$3, preview_url=$4, panel_count=$5,
		title=$6, location_name=$7, latitude=$8, longitude=$9, description=$10, date_taken=$11,
		status=$12, adjustments=$13, updated_at=$14
	WHERE id=$15 AND user_id=$16`
	res, err := r.db.ExecContext(ctx, q,
		img.OriginalURL, img.ProcessedURL, img.ThumbnailURL, img.PreviewURL, img.PanelCount,
		img.Title, img.LocationName, img.Latitude, img.Longitude, img.Description, img.DateTaken,
		img.Status, []byte(img.Adjustments), img.UpdatedAt, img.ID, img.UserID,
	)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": img.ID}).Error("update panorama failed")
		return err
	}
	// The user_id guard makes a foreign-owner update look like a miss.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PanoramaRepository) Archive(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE panorama_images SET status=$1, archived_at=$2, updated_at=$3 WHERE id=$4`,
		model.StatusArchived, at, time.Now().UTC(), id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": id}).Error("archive panorama failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PanoramaRepository) Restore(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE panorama_images SET status=$1, archived_at=NULL, updated_at=$2 WHERE id=$3`,
		model.StatusDraft, time.Now().UTC(), id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": id}).Error("restore panorama failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PanoramaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM panorama_images WHERE id=$1`, id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": id}).Error("delete panorama failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PanoramaRepository) MarkPosted(ctx context.Context, id, postID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE panorama_images SET status=$1, posted_at=$2, instagram_post_id=$3, updated_at=$4 WHERE id=$5`,
		model.StatusPosted, at, postID, time.Now().UTC(), id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "id": id}).Error("mark panorama posted failed")
	}
	return err
}

func (r *PanoramaRepository) ListPanels(ctx context.Context, imageID string) ([]*model.PanoramaPanel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, panorama_image_id, panel_order, panel_url FROM panorama_panels WHERE panorama_image_id=$1 ORDER BY panel_order ASC`,
		imageID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("list panels failed")
		return nil, err
	}
	defer rows.Close()
	var panels []*model.PanoramaPanel
	for rows.Next() {
		p := &model.PanoramaPanel{}
		if err := rows.Scan(&p.ID, &p.PanoramaImageID, &p.PanelOrder, &p.PanelURL); err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}
	return panels, rows.Err()
}

// ReplacePanels is the documented delete-then-insert: not atomic, a failure
// between the two steps leaves the image panel-less until the next save.
func (r *PanoramaRepository) ReplacePanels(ctx context.Context, imageID string, urls []string) error {
	if err := r.DeletePanels(ctx, imageID); err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	for i, u := range urls {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO panorama_panels (panorama_image_id, panel_order, panel_url) VALUES ($1,$2,$3)`,
			imageID, i+1, u)
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": imageID, "panel_order": i + 1}).Error("insert panel failed")
			return err
		}
	}
	return nil
}

func (r *PanoramaRepository) DeletePanels(ctx context.Context, imageID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM panorama_panels WHERE panorama_image_id=$1`, imageID)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "image_id": imageID}).Error("delete panels failed")
	}
	return err
}

var _ repository.IPanorama = (*PanoramaRepository)(nil)
