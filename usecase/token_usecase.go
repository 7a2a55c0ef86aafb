package usecase

import (
	"context"
	"errors"
	"time"

	"panorama-api/domain/dto"
	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"
)

// expiringSoonDays is the warning threshold for token expiry.
const expiringSoonDays = 7

// defaultTokenLifetime matches the Graph API's long-lived token validity,
// used when the environment does not state an expiry.
const defaultTokenLifetime = 60 * 24 * time.Hour

type ITokenUsecase interface {
	// GetTokenInfo reports the current token, its source (environment wins
	// over stored) and expiry health. ErrNotConfigured when no token exists.
	GetTokenInfo(ctx context.Context) (*dto.TokenInfo, error)
	// ImportFromEnv seeds a stored snapshot from the configured environment
	// token; fails when none is configured.
	ImportFromEnv(ctx context.Context, userID string) (*dto.TokenInfo, error)
	// ValidateToken returns validity as a boolean; an invalid token is an
	// expected outcome, not an error. An empty token argument validates the
	// currently configured token.
	ValidateToken(ctx context.Context, token string) (bool, error)
	// RefreshAccessToken validates then exchanges the current token. The
	// refreshed token is appended as a stored snapshot.
	RefreshAccessToken(ctx context.Context, userID string) (*dto.TokenInfo, error)
}

type tokenUsecase struct {
	cfg      configuration.Instagram
	credRepo repository.IInstagramCredential
	client   repository.IInstagramClient
	now      func() time.Time
}

func NewTokenUsecase(cfg configuration.Instagram, credRepo repository.IInstagramCredential, client repository.IInstagramClient) ITokenUsecase {
	return &tokenUsecase{cfg: cfg, credRepo: credRepo, client: client, now: func() time.Time { return time.Now().UTC() }}
}

// currentToken resolves the active token and its source.
func (u *tokenUsecase) currentToken(ctx context.Context) (token, source string, expiresAt time.Time, businessID string, err error) {
	if u.cfg.AccessToken != "" {
		return u.cfg.AccessToken, model.TokenSourceEnvironment, u.cfg.TokenExpiry(), u.cfg.BusinessAccountID, nil
	}
	cred, cErr := u.credRepo.Latest(ctx)
	if cErr != nil {
		if errors.Is(cErr, repository.ErrNotFound) {
			return "", "", time.Time{}, "", repository.ErrNotConfigured
		}
		return "", "", time.Time{}, "", cErr
	}
	businessID = u.cfg.BusinessAccountID
	if businessID == "" && cred.InstagramBusinessAccountID != nil {
		businessID = *cred.InstagramBusinessAccountID
	}
	return cred.AccessToken, model.TokenSourceStored, cred.ExpiresAt, businessID, nil
}

func (u *tokenUsecase) tokenInfo(token, source string, expiresAt time.Time, businessID string) *dto.TokenInfo {
	info := &dto.TokenInfo{
		Source:            source,
		TokenHint:         model.TokenHint(token),
		BusinessAccountID: businessID,
	}
	if !expiresAt.IsZero() {
		e := expiresAt
		info.ExpiresAt = &e
		info.DaysUntilExpiration = int(time.Until(expiresAt).Hours() / 24)
		info.IsExpiringSoon = info.DaysUntilExpiration <= expiringSoonDays
	}
	return info
}

func (u *tokenUsecase) GetTokenInfo(ctx context.Context) (*dto.TokenInfo, error) {
	token, source, expiresAt, businessID, err := u.currentToken(ctx)
	if err != nil {
		return nil, err
	}
	return u.tokenInfo(token, source, expiresAt, businessID), nil
}

func (u *tokenUsecase) ImportFromEnv(ctx context.Context, userID string) (*dto.TokenInfo, error) {
	if u.cfg.AccessToken == "" {
		return nil, repository.ErrNotConfigured
	}
	expiresAt := u.cfg.TokenExpiry()
	if expiresAt.IsZero() {
		expiresAt = u.now().Add(defaultTokenLifetime)
	}
	notes := "imported from environment"
	cred := &model.InstagramCredential{
		AccessToken: u.cfg.AccessToken,
		ExpiresAt:   expiresAt,
		Notes:       &notes,
		UpdatedBy:   userID,
		UpdatedAt:   u.now(),
	}
	if u.cfg.BusinessAccountID != "" {
		v := u.cfg.BusinessAccountID
		cred.InstagramBusinessAccountID = &v
	}
	if err := u.credRepo.Append(ctx, cred); err != nil {
		return nil, err
	}
	return u.tokenInfo(cred.AccessToken, model.TokenSourceStored, cred.ExpiresAt, u.cfg.BusinessAccountID), nil
}

func (u *tokenUsecase) ValidateToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		current, _, _, _, err := u.currentToken(ctx)
		if err != nil {
			return false, err
		}
		token = current
	}
	return u.client.ValidateToken(ctx, token)
}

func (u *tokenUsecase) RefreshAccessToken(ctx context.Context, userID string) (*dto.TokenInfo, error) {
	token, _, _, businessID, err := u.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	// Refresh requires a valid input token; the exchange endpoint is not a
	// recovery path for expired credentials.
	valid, err := u.client.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, repository.ErrInvalidToken
	}

	refreshed, err := u.client.RefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	expiresAt := u.now().Add(time.Duration(refreshed.ExpiresIn) * time.Second)
	notes := "refreshed via graph api"
	cred := &model.InstagramCredential{
		AccessToken: refreshed.AccessToken,
		ExpiresAt:   expiresAt,
		Notes:       &notes,
		UpdatedBy:   userID,
		UpdatedAt:   u.now(),
	}
	if businessID != "" {
		v := businessID
		cred.InstagramBusinessAccountID = &v
	}
	if err := u.credRepo.Append(ctx, cred); err != nil {
		// The refreshed token is live on the Graph side; losing the snapshot
		// only means the next read falls back to older state.
		logger.GetLogger().WithField("error", err).Error("credential snapshot append failed after refresh")
		return nil, err
	}
	return u.tokenInfo(refreshed.AccessToken, model.TokenSourceStored, expiresAt, businessID), nil
}
