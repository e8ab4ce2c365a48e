package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gilby125/pelicans-place/booking"
	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/buildinfo"
	"github.com/gilby125/pelicans-place/pkg/cache"
	"github.com/gilby125/pelicans-place/pkg/health"
	"github.com/gilby125/pelicans-place/pkg/instances"
	"github.com/gilby125/pelicans-place/pkg/middleware"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/gilby125/pelicans-place/worker"
	"github.com/gin-gonic/gin"
)

// Deps is everything the handlers read from. Outbox, Cache, Relay and Instances are
// optional and their routes answer 503 when absent.
type Deps struct {
	Config    *config.Config
	Catalog   *reviews.Catalog
	Listing   property.Listing
	Validator *contact.Validator
	Submitter contact.Submitter
	Outbox    queue.Outbox
	Cache     *cache.Manager
	Relay     RelayStatus
	Instances InstanceLister
	Health    *health.HealthChecker
	Now       func() time.Time
}

// InstanceLister reports the site instances that are currently alive.
type InstanceLister interface {
	ListActive(ctx context.Context, within time.Duration) ([]instances.Heartbeat, error)
}

// RelayStatus is the part of the relay the admin API reports on.
type RelayStatus interface {
	LastRun() worker.RunStats
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) bookingInfo() booking.Info {
	return booking.InfoFromConfig(d.Config.BookingConfig)
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps *Deps) {
	cfg := deps.Config

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/health", healthHandler(deps.Health, (*health.HealthChecker).CheckHealth))
	router.GET("/health/ready", healthHandler(deps.Health, (*health.HealthChecker).CheckReadiness))
	router.GET("/health/live", healthHandler(deps.Health, (*health.HealthChecker).CheckLiveness))

	v1 := router.Group("/api/v1")
	v1.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildinfo.Info())
	})

	content := v1.Group("")
	if deps.Cache != nil && cfg.CacheConfig.Enabled {
		content.Use(middleware.ResponseCache(deps.Cache, middleware.CacheConfig{
			TTL:       cfg.CacheConfig.TTL,
			KeyPrefix: cfg.CacheConfig.KeyPrefix,
		}))
	}
	{
		content.GET("/reviews", listReviews(deps.Catalog))
		content.GET("/reviews/stats", reviewStats(deps.Catalog))

		content.GET("/property", getProperty(deps.Listing))
		content.GET("/amenities", listAmenities())
		content.GET("/location", getLocation(deps.Listing))
		content.GET("/house-rules", getHouseRules(deps.Listing))
		content.GET("/faqs", listFAQs(deps.Listing))

		content.GET("/gallery", listGallery(cfg.GalleryConfig.ManifestPath))
	}

	// Date-dependent answers are never cached.
	v1.GET("/booking", getBookingPage(deps))
	v1.GET("/booking/calendar", getCalendar(deps))
	v1.GET("/booking/check", checkDates(deps))

	v1.GET("/contact/config", contactConfig(deps.Validator))
	v1.POST("/contact/validate", validateContactField(deps.Validator))
	v1.POST("/contact", submitContact(deps.Validator, deps.Submitter))

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminAuthConfig))
	{
		admin.GET("/contact/outbox", listOutbox(deps.Outbox))
		admin.GET("/contact/dead-letter", listDeadLetters(deps.Outbox))
		admin.POST("/contact/dead-letter/retry", retryDeadLetters(deps.Outbox))
		admin.GET("/contact/relay", relayStatus(deps.Relay))
		admin.GET("/instances", listInstances(deps.Instances))
		admin.DELETE("/cache", clearCache(deps.Cache))
	}

	galleryDir := cfg.GalleryConfig.OutputDir
	if galleryDir != "" {
		router.Static("/gallery", galleryDir)
	}
	serveFrontend(router, cfg.WebRoot)
}

// serveFrontend mounts the built site. Unknown non-API paths fall back to
// index.html so client-side routes resolve.
func serveFrontend(router *gin.Engine, root string) {
	index := filepath.Join(root, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}
	if assets := filepath.Join(root, "assets"); dirExists(assets) {
		router.Static("/assets", assets)
	}
	router.StaticFile("/", index)
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
