package persistence

import (
	"context"
	"database/sql"
	"time"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"
)

// InstagramHistoryRepository persists the append-only publish audit log.
type InstagramHistoryRepository struct {
	db *sql.DB
}

func NewInstagramHistoryRepository(db *sql.DB) *InstagramHistoryRepository {
	return &InstagramHistoryRepository{db: db}
}

func (r *InstagramHistoryRepository) Append(ctx context.Context, entry *model.InstagramPostHistory) error {
	if entry.PostedAt.IsZero() {
		entry.PostedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instagram_post_history (panorama_id, caption, status, instagram_post_id, posted_by, posted_at, result_payload, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.PanoramaID, entry.Caption, entry.Status, entry.InstagramPostID, entry.PostedBy,
		entry.PostedAt, []byte(entry.ResultPayload), entry.ErrorMessage)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "panorama_id": entry.PanoramaID}).Error("append post history failed")
	}
	return err
}

func (r *InstagramHistoryRepository) ListForPanorama(ctx context.Context, panoramaID string) ([]*model.InstagramPostHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, panorama_id, caption, status, instagram_post_id, posted_by, posted_at, result_payload, error_message
		 FROM instagram_post_history WHERE panorama_id=$1 ORDER BY posted_at DESC`,
		panoramaID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("list post history failed")
		return nil, err
	}
	defer rows.Close()
	var entries []*model.InstagramPostHistory
	for rows.Next() {
		e := &model.InstagramPostHistory{}
		var postID, errMsg sql.NullString
		var payload []byte
		if err := rows.Scan(&e.ID, &e.PanoramaID, &e.Caption, &e.Status, &postID, &e.PostedBy, &e.PostedAt, &payload, &errMsg); err != nil {
			return nil, err
		}
		if postID.Valid {
			v := postID.String
			e.InstagramPostID = &v
		}
		if errMsg.Valid {
			v := errMsg.String
			e.ErrorMessage = &v
		}
		if len(payload) > 0 {
			e.ResultPayload = payload
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ repository.IInstagramHistory = (*InstagramHistoryRepository)(nil)
