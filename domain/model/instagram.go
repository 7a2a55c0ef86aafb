package model

import (
	"encoding/json"
	"time"
)

// Instagram post history statuses.
const (
	HistoryStatusPosted = "posted"
	HistoryStatusFailed = "failed"
)

// InstagramPostHistory is one row of the append-only publish audit log. A row
// is written for every attempt, success or failure; rows are never updated or
// deleted by this service.
type InstagramPostHistory struct {
	ID              int64           `json:"id"`
	PanoramaID      string          `json:"panorama_id"`
	Caption         string          `json:"caption"`
	Status          string          `json:"status"`
	InstagramPostID *string         `json:"instagram_post_id,omitempty"`
	PostedBy        string          `json:"posted_by"`
	PostedAt        time.Time       `json:"posted_at"`
	ResultPayload   json.RawMessage `json:"result_payload,omitempty"`
	ErrorMessage    *string         `json:"error_message,omitempty"`
}

// Token sources for InstagramCredential snapshots.
const (
	TokenSourceEnvironment = "environment"
	TokenSourceStored      = "stored"
)

// InstagramCredential is an append-style token snapshot. The newest row wins
// on read; rows are never updated in place. The full access token is kept so
// a stored token survives process restarts; token_hint is the display form.
type InstagramCredential struct {
	ID                         int64     `json:"id"`
	AccessToken                string    `json:"-"`
	TokenHint                  string    `json:"token_hint"`
	ExpiresAt                  time.Time `json:"expires_at"`
	InstagramBusinessAccountID *string   `json:"instagram_business_account_id,omitempty"`
	Notes                      *string   `json:"notes,omitempty"`
	UpdatedBy                  string    `json:"updated_by"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// TokenHint derives the display form of an access token: first and last four
// characters with the middle elided.
func TokenHint(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// GraphPublishResult is the parsed outcome of a Graph API publish call.
// Raw keeps the unmodified response body for the audit log.
type GraphPublishResult struct {
	PostID string          `json:"post_id"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

// RefreshedToken is the response of the Graph API long-lived token exchange.
type RefreshedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
