package http

import (
	"errors"
	"net/http"

	"panorama-api/domain/repository"
)

// statusForError maps usecase errors to HTTP statuses. Unexpected upstream
// failures are logged at their origin; the caller only sees a generic 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrNoUsableAsset):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrInvalidToken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrNotConfigured):
		return http.StatusInternalServerError, "instagram not configured: set INSTAGRAM_ACCESS_TOKEN and INSTAGRAM_BUSINESS_ACCOUNT_ID"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
