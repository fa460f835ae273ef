package main

import "time"

// File permissions
const (
	TokenFilePerms = 0o600 // Read/write for owner only
	ConfigDirPerms = 0o750 // Read/write/execute for owner, read/execute for group
)

// OAuth
const (
	tokenSiteAnilist = "anilist"
	callbackPath     = "/callback"
)

// Timeout and duration constants
const (
	ServerShutdownTimeout = 5 * time.Second  // Timeout for graceful server shutdown
	RequestTimeout        = 5 * time.Second  // Timeout for the callback token exchange
	ReadHeaderTimeout     = 10 * time.Second // Timeout for reading HTTP headers
	FlushTimeout          = 30 * time.Second // Upper bound for the flush at command end
)

// Backoff policy constants
const (
	BackoffInitialInterval     = 1 * time.Second  // Initial backoff interval
	BackoffMaxInterval         = 30 * time.Second // Maximum backoff interval
	BackoffMaxElapsedTime      = 2 * time.Minute  // Maximum elapsed time for backoff
	BackoffMultiplier          = 2.0              // Backoff multiplier
	BackoffRandomizationFactor = 0.1              // Randomization factor for jitter
)

// Watch schedule bounds
const (
	minWatchInterval = 1 * time.Minute
	maxWatchInterval = 168 * time.Hour // 7 days
)
