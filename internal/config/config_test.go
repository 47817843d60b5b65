package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultOpenLibraryBaseURL, cfg.Lists.OpenLibraryBaseURL)
	assert.Equal(t, 60*time.Second, cfg.Lists.FlareSolverrTimeout)
	assert.Equal(t, 4, cfg.Lists.OpenLibraryConcurrency)
	assert.Equal(t, "0 */6 * * *", cfg.ListSync.Schedule)
	assert.Equal(t, 50, cfg.ListSync.MaxPages)
	assert.True(t, cfg.Tasks.Enabled)
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("FLARESOLVERR_URL", "http://flaresolverr:8191")
	t.Setenv("FLARESOLVERR_TIMEOUT", "90s")
	t.Setenv("LIST_SYNC_ENABLED", "true")
	t.Setenv("LIST_SYNC_MAX_PAGES", "5")
	t.Setenv("PORT", "9000")

	cfg := NewConfig()

	assert.Equal(t, "http://flaresolverr:8191", cfg.Lists.FlareSolverrURL)
	assert.Equal(t, 90*time.Second, cfg.Lists.FlareSolverrTimeout)
	assert.True(t, cfg.ListSync.Enabled)
	assert.Equal(t, 5, cfg.ListSync.MaxPages)
	assert.Equal(t, int32(9000), cfg.HTTP.Port)
}
