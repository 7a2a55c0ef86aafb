package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusDraft, StatusReady, true},
		{StatusReady, StatusPrivate, true},
		{StatusPrivate, StatusDraft, true},
		{StatusDraft, StatusDraft, true},
		{StatusDraft, StatusPosted, false},
		{StatusReady, StatusPosted, false},
		// archive and restore run through their own operations so the
		// archived_at stamp stays paired with the status.
		{StatusDraft, StatusArchived, false},
		{StatusPosted, StatusArchived, false},
		{StatusArchived, StatusDraft, false},
		{StatusArchived, StatusReady, false},
		{StatusArchived, StatusPrivate, false},
		{StatusPosted, StatusPosted, false},
		{StatusPosted, StatusDraft, false},
		{StatusDraft, "published", false},
		{"", StatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestBestImageURLPreference(t *testing.T) {
	processed := "https://cdn.example.com/processed.jpg"
	preview := "https://cdn.example.com/preview.jpg"
	thumbnail := "https://cdn.example.com/thumb.jpg"

	img := &PanoramaImage{OriginalURL: "https://cdn.example.com/original.jpg"}
	assert.Equal(t, img.OriginalURL, img.BestImageURL())

	img.ThumbnailURL = &thumbnail
	assert.Equal(t, thumbnail, img.BestImageURL())

	img.PreviewURL = &preview
	assert.Equal(t, preview, img.BestImageURL())

	img.ProcessedURL = &processed
	assert.Equal(t, processed, img.BestImageURL())
}

func TestAssetURLsSkipsEmpty(t *testing.T) {
	processed := "https://cdn.example.com/processed.jpg"
	empty := ""
	img := &PanoramaImage{
		OriginalURL:  "https://cdn.example.com/original.jpg",
		ProcessedURL: &processed,
		ThumbnailURL: &empty,
	}
	assert.Equal(t, []string{img.OriginalURL, processed}, img.AssetURLs())
}

func TestTokenHint(t *testing.T) {
	assert.Equal(t, "shrt", TokenHint("shrt"))
	assert.Equal(t, "12345678", TokenHint("12345678"))
	assert.Equal(t, "EAAB...wxyz", TokenHint("EAABsomething-long-wxyz"))
}
