package utils

import (
	"time"
)

// Session time constants
const (
	// SessionTimeout is how long a persisted admin login stays valid (24 hours)
	SessionTimeout = 24 * time.Hour

	// SessionCookieName names the cookie carrying the signed session handle
	SessionCookieName = "desa_session"

	// SessionCookieMaxAge keeps the handle across browser restarts (30 days, in seconds).
	// Whether the session is still logged in is decided by the guard, not the cookie.
	SessionCookieMaxAge = 30 * 24 * 60 * 60

	// SessionInitTimeout bounds reading the persisted session record
	SessionInitTimeout = 5 * time.Second
)

// Request and store constants
const (
	// RequestTimeout is the default bound on store round trips started by a handler
	RequestTimeout = 30 * time.Second

	// ListCacheTTL is the default lifetime of a cached list
	ListCacheTTL = 10 * time.Minute
)

// Upload constants
const (
	// MaxUploadBytes is the default upload size limit (5 MiB)
	MaxUploadBytes = 5 * 1024 * 1024

	// MaxImageWidth is the widest image stored as-is; wider ones are downscaled
	MaxImageWidth = 1920

	// MaxImagePixels caps width*height of an accepted image (40 MP)
	MaxImagePixels = 40_000_000
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
