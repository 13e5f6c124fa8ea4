package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://example.org/")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://example.org", cfg.FrontendURL)
	assert.Equal(t, "http://localhost:9090", cfg.PublicBaseURL)
	assert.Equal(t, 6, cfg.MaxPhotos)
	assert.Equal(t, int64(5<<20), cfg.MaxPhotoBytes)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example/ ,")
	t.Setenv("MAX_PHOTOS", "3")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.MaxPhotos)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 24, cfg.JWTTTLHours)
}
