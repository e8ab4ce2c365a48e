package api

import (
	"context"
	"net/http"

	"github.com/gilby125/pelicans-place/gallery"
	"github.com/gilby125/pelicans-place/pkg/health"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/rating"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/gin-gonic/gin"
)

// ReviewView is a review with its display fields filled in.
type ReviewView struct {
	reviews.Review
	Stars     [rating.MaxStars]rating.Star `json:"stars"`
	Preview   string                       `json:"preview"`
	Truncated bool                         `json:"truncated"`
	StayKind  string                       `json:"stayKind,omitempty"`
}

// BreakdownRow is one bar of the rating histogram.
type BreakdownRow struct {
	Rating     int `json:"rating"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// StatsView is Stats plus the formatted strings the review cards show.
type StatsView struct {
	OverallRating  float64                      `json:"overallRating"`
	OverallDisplay string                       `json:"overallDisplay"`
	Label          string                       `json:"label"`
	Summary        string                       `json:"summary"`
	TotalReviews   int                          `json:"totalReviews"`
	Stars          [rating.MaxStars]rating.Star `json:"stars"`
	Breakdown      []BreakdownRow               `json:"breakdown"`
}

func newReviewView(r reviews.Review) ReviewView {
	preview, truncated := reviews.Preview(r.Text)
	return ReviewView{
		Review:    r,
		Stars:     rating.StarArray(float64(r.Rating)),
		Preview:   preview,
		Truncated: truncated,
		StayKind:  reviews.StayKind(r.StayDetails),
	}
}

func newStatsView(s reviews.Stats) StatsView {
	view := StatsView{
		OverallRating:  s.OverallRating,
		OverallDisplay: rating.FormatDefault(s.OverallRating),
		Label:          rating.Label(s.OverallRating),
		Summary:        rating.Summary(s.OverallRating, s.TotalReviews),
		TotalReviews:   s.TotalReviews,
		Stars:          rating.StarArray(s.OverallRating),
	}
	for r := 5; r >= 1; r-- {
		count := s.RatingBreakdown[r]
		view.Breakdown = append(view.Breakdown, BreakdownRow{
			Rating:     r,
			Count:      count,
			Percentage: rating.Percentage(count, s.TotalReviews),
		})
	}
	return view
}

// listReviews handles GET /api/v1/reviews?rating=&sort=&q=
func listReviews(catalog *reviews.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := reviews.ParseRatingFilter(c.Query("rating"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := reviews.ParseSortOrder(c.Query("sort"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		list := catalog.Query(reviews.Params{Rating: filter, Sort: order, Keyword: c.Query("q")})
		views := make([]ReviewView, 0, len(list))
		for _, r := range list {
			views = append(views, newReviewView(r))
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews": views,
			"count":   len(views),
			"sort":    order,
			"rating":  filter,
			"stats":   newStatsView(reviews.ComputeStats(list)),
		})
	}
}

// reviewStats handles GET /api/v1/reviews/stats
func reviewStats(catalog *reviews.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		drift := catalog.Drift()
		if !drift.InSync {
			logger.WithContext(c.Request.Context()).WithFields(map[string]interface{}{
				"total_drift":  drift.TotalReviews,
				"rating_drift": drift.OverallRating,
			}).Warn("Published review stats disagree with review list")
		}
		c.JSON(http.StatusOK, gin.H{
			"published": newStatsView(catalog.PublishedStats()),
			"derived":   newStatsView(catalog.DerivedStats()),
			"drift":     drift,
		})
	}
}

// getProperty handles GET /api/v1/property
func getProperty(listing property.Listing) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"propertyInfo": listing.Info,
			"highlights":   listing.Highlights,
			"host":         listing.Host,
		})
	}
}

// listAmenities handles GET /api/v1/amenities?category=
func listAmenities() gin.HandlerFunc {
	return func(c *gin.Context) {
		if category := c.Query("category"); category != "" {
			items := property.ByCategory(category)
			if items == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown amenity category: " + category})
				return
			}
			c.JSON(http.StatusOK, property.AmenityGroup{
				Category:    category,
				DisplayName: property.DisplayName(category),
				Items:       items,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"groups": property.Groups(),
			"total":  property.TotalCount(),
		})
	}
}

// getLocation handles GET /api/v1/location
func getLocation(listing property.Listing) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listing.Location)
	}
}

// getHouseRules handles GET /api/v1/house-rules
func getHouseRules(listing property.Listing) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"houseRules": listing.HouseRules,
			"checkIn":    listing.HouseRules.CheckIn(),
		})
	}
}

// listFAQs handles GET /api/v1/faqs?category=&q=
func listFAQs(listing property.Listing) gin.HandlerFunc {
	return func(c *gin.Context) {
		faqs := property.AllFAQs(listing)
		if category := c.Query("category"); category != "" {
			faqs = property.FilterFAQs(faqs, category)
		}
		if q := c.Query("q"); q != "" {
			faqs = property.SearchFAQs(faqs, q)
		}
		c.JSON(http.StatusOK, gin.H{"faqs": faqs, "count": len(faqs)})
	}
}

// GalleryImage is a manifest entry with its resolved URL.
type GalleryImage struct {
	gallery.Image
	URL string `json:"url"`
}

// listGallery handles GET /api/v1/gallery?category=&featured=
func listGallery(manifestPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		images, err := gallery.LoadManifest(manifestPath)
		if err != nil {
			logger.WithContext(c.Request.Context()).Error(err, "Failed to load gallery manifest")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gallery is unavailable"})
			return
		}

		categories := gallery.Categories(images)
		if c.Query("featured") == "true" {
			images = gallery.Featured(images)
		} else {
			images = gallery.ByCategory(images, c.Query("category"))
		}

		out := make([]GalleryImage, 0, len(images))
		for _, img := range images {
			out = append(out, GalleryImage{Image: img, URL: img.DisplayURL()})
		}
		c.JSON(http.StatusOK, gin.H{
			"images":     out,
			"count":      len(out),
			"categories": categories,
		})
	}
}

func healthHandler(h *health.HealthChecker, run func(*health.HealthChecker, context.Context) health.Report) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		report := run(h, c.Request.Context())
		status := http.StatusOK
		if report.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
