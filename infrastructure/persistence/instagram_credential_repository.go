package persistence

import (
	"context"
	"database/sql"
	"time"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"
)

// InstagramCredentialRepository stores token snapshots append-style; reads
// always take the newest row.
type InstagramCredentialRepository struct {
	db *sql.DB
}

func NewInstagramCredentialRepository(db *sql.DB) *InstagramCredentialRepository {
	return &InstagramCredentialRepository{db: db}
}

func (r *InstagramCredentialRepository) Append(ctx context.Context, cred *model.InstagramCredential) error {
	if cred.UpdatedAt.IsZero() {
		cred.UpdatedAt = time.Now().UTC()
	}
	if cred.TokenHint == "" {
		cred.TokenHint = model.TokenHint(cred.AccessToken)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instagram_credentials (access_token, token_hint, expires_at, instagram_business_account_id, notes, updated_by, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		cred.AccessToken, cred.TokenHint, cred.ExpiresAt, cred.InstagramBusinessAccountID, cred.Notes, cred.UpdatedBy, cred.UpdatedAt)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("append credential snapshot failed")
	}
	return err
}

func (r *InstagramCredentialRepository) Latest(ctx context.Context) (*model.InstagramCredential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, access_token, token_hint, expires_at, instagram_business_account_id, notes, updated_by, updated_at
		 FROM instagram_credentials ORDER BY id DESC LIMIT 1`)
	cred := &model.InstagramCredential{}
	var businessID, notes sql.NullString
	if err := row.Scan(&cred.ID, &cred.AccessToken, &cred.TokenHint, &cred.ExpiresAt, &businessID, &notes, &cred.UpdatedBy, &cred.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		logger.GetLogger().WithField("error", err).Error("query latest credential failed")
		return nil, err
	}
	if businessID.Valid {
		v := businessID.String
		cred.InstagramBusinessAccountID = &v
	}
	if notes.Valid {
		v := notes.String
		cred.Notes = &v
	}
	return cred, nil
}

var _ repository.IInstagramCredential = (*InstagramCredentialRepository)(nil)
