package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function which reads from environment variables.
func TestLoad(t *testing.T) {
	// Clear existing env vars that might interfere
	os.Clearenv()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, "development", cfg.Environment)
		assert.False(t, cfg.RedisEnabled)
		assert.Equal(t, "json", cfg.LoggingConfig.Format)
		assert.Equal(t, "redis", cfg.RedisConfig.Host)
		assert.Equal(t, "6379", cfg.RedisConfig.Port)
		assert.Equal(t, 0, cfg.RedisConfig.DB)
		assert.True(t, cfg.CacheConfig.Enabled)
		assert.Equal(t, 10*time.Minute, cfg.CacheConfig.TTL)
		assert.Equal(t, "architect@pulseroi.com", cfg.ContactConfig.RecipientEmail)
		assert.Equal(t, "", cfg.ContactConfig.EmailServiceEndpoint)
		assert.Equal(t, 1000, cfg.ContactConfig.MaxMessageLength)
		assert.Equal(t, []string{"name", "email", "subject", "message"}, cfg.ContactConfig.RequiredFields)
		assert.Equal(t, 1500*time.Millisecond, cfg.ContactConfig.SubmitLatency)
		assert.Equal(t, "https://www.airbnb.com/h/pelicansplace", cfg.BookingConfig.AirbnbURL)
		assert.Equal(t, 2, cfg.BookingConfig.MinimumStay)
		assert.Equal(t, 28, cfg.BookingConfig.MaximumStay)
		assert.Equal(t, 5, cfg.GalleryConfig.MaxRedirects)
		assert.Equal(t, "public/gallery", cfg.GalleryConfig.OutputDir)
		assert.False(t, cfg.RelayConfig.Enabled)
		assert.Equal(t, "@every 1m", cfg.RelayConfig.Schedule)
		assert.False(t, cfg.NTFYConfig.Enabled)
		assert.False(t, cfg.AdminAuthConfig.Enabled)
	})

	t.Run("environment variable override", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("HTTP_BIND_ADDR", "127.0.0.1")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_HOST", "cache.example.com")
		t.Setenv("CACHE_TTL", "not-a-duration")
		t.Setenv("CONTACT_MAX_MESSAGE_LENGTH", "500")
		t.Setenv("CONTACT_SERVICE_ENDPOINT", "https://mail.example.com/send")
		t.Setenv("CONTACT_REQUIRED_FIELDS", " Name, EMAIL ,,message")
		t.Setenv("BOOKING_MINIMUM_STAY", "0")
		t.Setenv("RELAY_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
		assert.Equal(t, "production", cfg.Environment)
		assert.True(t, cfg.RedisEnabled)
		assert.Equal(t, "cache.example.com", cfg.RedisConfig.Host)
		assert.Equal(t, 10*time.Minute, cfg.CacheConfig.TTL)
		assert.Equal(t, 500, cfg.ContactConfig.MaxMessageLength)
		assert.Equal(t, "https://mail.example.com/send", cfg.ContactConfig.EmailServiceEndpoint)
		assert.Equal(t, []string{"name", "email", "message"}, cfg.ContactConfig.RequiredFields)
		assert.Equal(t, 2, cfg.BookingConfig.MinimumStay)
		assert.True(t, cfg.RelayConfig.Enabled)
	})
}

// TestTestConfig tests the TestConfig helper function
func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	assert.Equal(t, "test", cfg.Environment)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 1000, cfg.ContactConfig.MaxMessageLength)
	assert.Equal(t, 2, cfg.BookingConfig.MinimumStay)
	assert.Equal(t, 5, cfg.GalleryConfig.MaxRedirects)
}
