package tasks

import "time"

// Config controls the background task queue. Per-queue attempts, backoff
// and retention come from each task's Config method.
type Config struct {
	// Workers run list syncs concurrently. Each sync hits an external site,
	// so this stays small. Default: 2
	Workers int

	// ReleaseAfter returns a claimed task to the queue when its worker
	// disappears. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task records are purged. Default: 1h
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
