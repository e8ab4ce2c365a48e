package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port            string
	HTTPBindAddr    string
	Environment     string
	WebRoot         string
	RedisEnabled    bool
	LoggingConfig   LoggingConfig
	RedisConfig     RedisConfig
	CacheConfig     CacheConfig
	ContactConfig   ContactConfig
	BookingConfig   BookingConfig
	GalleryConfig   GalleryConfig
	RelayConfig     RelayConfig
	NTFYConfig      NTFYConfig
	AdminAuthConfig AdminAuthConfig
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	OutboxPrefix string
}

// CacheConfig controls the JSON response cache in front of the read-only API
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string
}

// ContactConfig holds contact form settings
type ContactConfig struct {
	RecipientEmail       string
	EmailServiceEndpoint string // empty until a real mail/API endpoint exists
	MaxMessageLength     int
	RequiredFields       []string
	SubmitLatency        time.Duration
}

// BookingConfig holds booking page settings
type BookingConfig struct {
	AirbnbURL   string
	MinimumStay int
	MaximumStay int
}

// GalleryConfig holds gallery manifest and downloader settings
type GalleryConfig struct {
	ManifestPath string
	OutputDir    string
	RootDir      string
	MaxRedirects int
	Timeout      time.Duration
}

// RelayConfig controls the cron job that forwards queued contact submissions
type RelayConfig struct {
	Enabled   bool
	Schedule  string
	BatchSize int
	Timeout   time.Duration
}

// NTFYConfig holds NTFY push notification configuration
type NTFYConfig struct {
	ServerURL string
	Topic     string
	Username  string
	Password  string
	Enabled   bool
	ClickURL  string
}

// AdminAuthConfig holds admin authentication configuration
type AdminAuthConfig struct {
	Enabled  bool
	Username string
	Password string
	Token    string // Alternative: Bearer token auth
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	redisEnabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisConfig := RedisConfig{
		Host:         getEnv("REDIS_HOST", "redis"),
		Port:         getEnv("REDIS_PORT", "6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           redisDB,
		OutboxPrefix: getEnv("REDIS_OUTBOX_PREFIX", "pelicans"),
	}

	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		cacheTTL = 10 * time.Minute
	}
	cacheConfig := CacheConfig{
		Enabled:   cacheEnabled,
		TTL:       cacheTTL,
		KeyPrefix: getEnv("CACHE_KEY_PREFIX", "pelicans"),
	}

	maxMessageLength, _ := strconv.Atoi(getEnv("CONTACT_MAX_MESSAGE_LENGTH", "1000"))
	if maxMessageLength < 10 {
		maxMessageLength = 1000
	}
	submitLatency, err := time.ParseDuration(getEnv("CONTACT_SUBMIT_LATENCY", "1500ms"))
	if err != nil {
		submitLatency = 1500 * time.Millisecond
	}
	contactConfig := ContactConfig{
		RecipientEmail:       getEnv("CONTACT_RECIPIENT_EMAIL", "architect@pulseroi.com"),
		EmailServiceEndpoint: getEnv("CONTACT_SERVICE_ENDPOINT", ""),
		MaxMessageLength:     maxMessageLength,
		RequiredFields:       splitList(getEnv("CONTACT_REQUIRED_FIELDS", "name,email,subject,message")),
		SubmitLatency:        submitLatency,
	}

	minimumStay, _ := strconv.Atoi(getEnv("BOOKING_MINIMUM_STAY", "2"))
	if minimumStay < 1 {
		minimumStay = 2
	}
	maximumStay, _ := strconv.Atoi(getEnv("BOOKING_MAXIMUM_STAY", "28"))
	if maximumStay < minimumStay {
		maximumStay = 28
	}
	bookingConfig := BookingConfig{
		AirbnbURL:   getEnv("BOOKING_AIRBNB_URL", "https://www.airbnb.com/h/pelicansplace"),
		MinimumStay: minimumStay,
		MaximumStay: maximumStay,
	}

	maxRedirects, _ := strconv.Atoi(getEnv("GALLERY_MAX_REDIRECTS", "5"))
	if maxRedirects < 0 {
		maxRedirects = 5
	}
	galleryTimeout, err := time.ParseDuration(getEnv("GALLERY_DOWNLOAD_TIMEOUT", "60s"))
	if err != nil {
		galleryTimeout = 60 * time.Second
	}
	galleryConfig := GalleryConfig{
		ManifestPath: getEnv("GALLERY_MANIFEST_PATH", "data/propertyImages.manifest.json"),
		OutputDir:    getEnv("GALLERY_OUTPUT_DIR", "public/gallery"),
		RootDir:      getEnv("GALLERY_ROOT_DIR", "."),
		MaxRedirects: maxRedirects,
		Timeout:      galleryTimeout,
	}

	relayEnabled, _ := strconv.ParseBool(getEnv("RELAY_ENABLED", "false"))
	relayBatch, _ := strconv.Atoi(getEnv("RELAY_BATCH_SIZE", "10"))
	if relayBatch < 1 {
		relayBatch = 10
	}
	relayTimeout, err := time.ParseDuration(getEnv("RELAY_TIMEOUT", "15s"))
	if err != nil {
		relayTimeout = 15 * time.Second
	}
	relayConfig := RelayConfig{
		Enabled:   relayEnabled,
		Schedule:  getEnv("RELAY_SCHEDULE", "@every 1m"),
		BatchSize: relayBatch,
		Timeout:   relayTimeout,
	}

	ntfyEnabled, _ := strconv.ParseBool(getEnv("NTFY_ENABLED", "false"))
	ntfyConfig := NTFYConfig{
		ServerURL: getEnv("NTFY_SERVER_URL", "https://ntfy.sh"),
		Topic:     getEnv("NTFY_TOPIC", ""),
		Username:  getEnv("NTFY_USERNAME", ""),
		Password:  getEnv("NTFY_PASSWORD", ""),
		Enabled:   ntfyEnabled,
		ClickURL:  getEnv("NTFY_CLICK_URL", ""),
	}

	adminAuthEnabled, _ := strconv.ParseBool(getEnv("ADMIN_AUTH_ENABLED", "false"))
	adminAuthConfig := AdminAuthConfig{
		Enabled:  adminAuthEnabled,
		Username: getEnv("ADMIN_AUTH_USERNAME", ""),
		Password: getEnv("ADMIN_AUTH_PASSWORD", ""),
		Token:    getEnv("ADMIN_AUTH_TOKEN", ""),
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		HTTPBindAddr:    getEnv("HTTP_BIND_ADDR", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		WebRoot:         getEnv("WEB_ROOT", "./web"),
		RedisEnabled:    redisEnabled,
		LoggingConfig:   loggingConfig,
		RedisConfig:     redisConfig,
		CacheConfig:     cacheConfig,
		ContactConfig:   contactConfig,
		BookingConfig:   bookingConfig,
		GalleryConfig:   galleryConfig,
		RelayConfig:     relayConfig,
		NTFYConfig:      ntfyConfig,
		AdminAuthConfig: adminAuthConfig,
	}, nil
}

// TestConfig returns a configuration with in-process defaults for tests
func TestConfig() *Config {
	return &Config{
		Port:          "0",
		Environment:   "test",
		WebRoot:       "./web",
		LoggingConfig: LoggingConfig{Level: "error", Format: "text"},
		RedisConfig: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			OutboxPrefix: "test",
		},
		CacheConfig: CacheConfig{TTL: time.Minute, KeyPrefix: "test"},
		ContactConfig: ContactConfig{
			RecipientEmail:   "host@example.com",
			MaxMessageLength: 1000,
			RequiredFields:   []string{"name", "email", "subject", "message"},
		},
		BookingConfig: BookingConfig{
			AirbnbURL:   "https://www.airbnb.com/h/pelicansplace",
			MinimumStay: 2,
			MaximumStay: 28,
		},
		GalleryConfig: GalleryConfig{
			ManifestPath: "data/propertyImages.manifest.json",
			OutputDir:    "public/gallery",
			RootDir:      ".",
			MaxRedirects: 5,
			Timeout:      5 * time.Second,
		},
		RelayConfig: RelayConfig{Schedule: "@every 1m", BatchSize: 10, Timeout: 5 * time.Second},
	}
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.HTTPBindAddr + ":" + c.Port
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
