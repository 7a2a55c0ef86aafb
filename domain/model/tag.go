package model

// Tag is global and shared across all owners. The slug is the normalized,
// URL-safe uniqueness key; name keeps whatever casing the first writer used.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	UsageCount int    `json:"usage_count"`
}
