package repository

import "errors"

var (
	// ErrNotFound signals an absent record. Read paths treat it as a normal
	// negative result and never log it as an error.
	ErrNotFound = errors.New("record not found")

	// ErrTagsUnavailable signals that the tag feature's backing tables are
	// missing. Callers degrade to an empty tag list instead of failing.
	ErrTagsUnavailable = errors.New("tag storage unavailable")

	// ErrNotConfigured signals missing Instagram configuration (access token
	// or business account id). The external API must not be called in this
	// state.
	ErrNotConfigured = errors.New("instagram posting not configured")

	// ErrNoUsableAsset signals a publish attempt on a panorama with no
	// resolvable image URL and no panels.
	ErrNoUsableAsset = errors.New("no usable image asset")

	// ErrInvalidToken signals a refresh attempt with a token that failed
	// validation.
	ErrInvalidToken = errors.New("access token is invalid")
)
