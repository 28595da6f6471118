package core

import "time"

// Timeout defaults for check operations
const (
	DefaultFetchTimeout  = 20 * time.Second
	DefaultRenderTimeout = 35 * time.Second
	DefaultCheckInterval = 15 * time.Minute
)

// HTTP client configuration
const (
	UserAgent = "Mozilla/5.0 (compatible; portalwatch/1.0)"
)
