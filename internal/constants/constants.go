package constants

import "time"

const CacheTTL = 5 * time.Minute

const (
	RecordFetchTimeout = 15 * time.Second
	NameLookupTimeout  = 5 * time.Second
	ModeListTimeout    = 15 * time.Second
	LookupTimeout      = 30 * time.Second
)

const (
	WorkerCount     = 4
	WorkerQueueSize = 256
)

const (
	// backend politeness, requests per second per backend
	RequestRate  = 10
	RequestBurst = 20
)

const (
	DiscoveryInterval = 2 * time.Second
	PendingPruneEvery = 30 * time.Second
	CleanupInterval   = 2 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	Version       = "1.1.0"
	UserAgent     = "TierTagger/" + Version
	BodySampleLen = 100
)
