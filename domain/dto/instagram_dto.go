package dto

import "time"

// InstagramPostRequest is the body of POST /api/instagram/post.
type InstagramPostRequest struct {
	ImageID string `json:"imageId" binding:"required"`
	Caption string `json:"caption,omitempty"`
}

// InstagramPostResult is returned to the caller regardless of outcome; a
// failed publish is a normal business result, not an HTTP error.
type InstagramPostResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TokenInfo describes the current access token's health for the admin
// endpoints. Source is "environment" when the token comes from process
// configuration, "stored" when it comes from the newest credential snapshot.
type TokenInfo struct {
	Source              string     `json:"source"`
	TokenHint           string     `json:"token_hint"`
	BusinessAccountID   string     `json:"instagram_business_account_id,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	DaysUntilExpiration int        `json:"days_until_expiration"`
	IsExpiringSoon      bool       `json:"is_expiring_soon"`
	Valid               *bool      `json:"valid,omitempty"`
}
