package api

// API limits and constants.
const (
	// MaxSearchQueryLength bounds free-text queries on search endpoints.
	MaxSearchQueryLength = 200

	// SearchRatePerMinute is the per-user limit on movie search, which may
	// call the metadata provider.
	SearchRatePerMinute = 30
)

// Cache-Control header values.
const (
	CacheFiveMinutes = "public, max-age=300"
	CacheNoStore     = "no-cache"
)
