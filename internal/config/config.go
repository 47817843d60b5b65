package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Lists
		ListSync
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Lists struct {
		GoodreadsBaseURL   string
		StoryGraphBaseURL  string
		OpenLibraryBaseURL string
		CoversBaseURL      string

		FlareSolverrURL     string        // Empty disables StoryGraph
		FlareSolverrTimeout time.Duration // Browser render budget per page

		OpenLibraryRequestInterval time.Duration // Minimum gap between Open Library calls
		OpenLibraryConcurrency     int           // Parallel enrichment lookups per page
	}
	ListSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
		MaxPages int    // Upper bound on pages followed per import run
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// List sources
	v.SetDefault("goodreads_base_url", DefaultGoodreadsBaseURL)
	v.SetDefault("storygraph_base_url", DefaultStoryGraphBaseURL)
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_covers_url", DefaultCoversBaseURL)
	v.SetDefault("flaresolverr_url", "")
	v.SetDefault("flaresolverr_timeout", "60s")
	v.SetDefault("openlibrary_request_interval", "100ms")
	v.SetDefault("openlibrary_concurrency", 4)

	// Periodic list sync
	v.SetDefault("list_sync_enabled", false)
	v.SetDefault("list_sync_schedule", "0 */6 * * *") // Every 6 hours
	v.SetDefault("list_sync_max_pages", 50)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Lists: Lists{
			GoodreadsBaseURL:           v.GetString("GOODREADS_BASE_URL"),
			StoryGraphBaseURL:          v.GetString("STORYGRAPH_BASE_URL"),
			OpenLibraryBaseURL:         v.GetString("OPENLIBRARY_BASE_URL"),
			CoversBaseURL:              v.GetString("OPENLIBRARY_COVERS_URL"),
			FlareSolverrURL:            v.GetString("FLARESOLVERR_URL"),
			FlareSolverrTimeout:        v.GetDuration("FLARESOLVERR_TIMEOUT"),
			OpenLibraryRequestInterval: v.GetDuration("OPENLIBRARY_REQUEST_INTERVAL"),
			OpenLibraryConcurrency:     v.GetInt("OPENLIBRARY_CONCURRENCY"),
		},
		ListSync: ListSync{
			Enabled:  v.GetBool("LIST_SYNC_ENABLED"),
			Schedule: v.GetString("LIST_SYNC_SCHEDULE"),
			MaxPages: v.GetInt("LIST_SYNC_MAX_PAGES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
