package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gilby125/pelicans-place/api"
	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/health"
	"github.com/gilby125/pelicans-place/property"
	"github.com/gilby125/pelicans-place/reviews"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 12, 10, 9, 30, 0, 0, time.UTC)

func testDeps(t *testing.T) *api.Deps {
	t.Helper()
	cfg := config.TestConfig()
	cfg.WebRoot = t.TempDir()
	cfg.GalleryConfig.ManifestPath = filepath.Join("..", "data", "propertyImages.manifest.json")
	cfg.GalleryConfig.OutputDir = ""

	catalog, err := reviews.DefaultCatalog()
	require.NoError(t, err)

	return &api.Deps{
		Config:    cfg,
		Catalog:   catalog,
		Listing:   property.Default(),
		Validator: contact.NewValidator(cfg.ContactConfig),
		Submitter: contact.SubmitterFunc(func(context.Context, contact.Submission) error { return nil }),
		Now:       func() time.Time { return fixedNow },
	}
}

func setupRouter(deps *api.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.RegisterRoutes(router, deps)
	return router
}

func get(t *testing.T, router http.Handler, path string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type reviewsResponse struct {
	Reviews []api.ReviewView `json:"reviews"`
	Count   int              `json:"count"`
	Sort    string           `json:"sort"`
	Stats   api.StatsView    `json:"stats"`
}

func TestListReviews(t *testing.T) {
	router := setupRouter(testDeps(t))

	var all reviewsResponse
	w := get(t, router, "/api/v1/reviews", &all)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 41, all.Count)
	assert.Equal(t, "newest", all.Sort)
	assert.Equal(t, 41, all.Stats.TotalReviews)
	assert.Equal(t, "4.88", all.Stats.OverallDisplay)
	assert.Equal(t, "Excellent", all.Stats.Label)
	require.Len(t, all.Stats.Breakdown, 5)
	assert.Equal(t, api.BreakdownRow{Rating: 5, Count: 36, Percentage: 88}, all.Stats.Breakdown[0])
	assert.Equal(t, api.BreakdownRow{Rating: 4, Count: 5, Percentage: 12}, all.Stats.Breakdown[1])
	assert.NotEmpty(t, all.Reviews[0].Preview)

	var four reviewsResponse
	get(t, router, "/api/v1/reviews?rating=4&sort=newest", &four)
	var authors []string
	for _, r := range four.Reviews {
		authors = append(authors, r.Author)
		assert.Equal(t, "empty", string(r.Stars[4]))
		assert.Equal(t, "full", string(r.Stars[3]))
	}
	assert.Equal(t, []string{"Kellie", "Tim", "Zachary", "Denise", "Hailey"}, authors)
	assert.Equal(t, 100, four.Stats.Breakdown[1].Percentage)

	var oldest reviewsResponse
	get(t, router, "/api/v1/reviews?rating=4&sort=oldest", &oldest)
	assert.Equal(t, "Hailey", oldest.Reviews[0].Author)

	var search reviewsResponse
	get(t, router, "/api/v1/reviews?q=GORDON", &search)
	assert.Equal(t, 13, search.Count)

	var none reviewsResponse
	get(t, router, "/api/v1/reviews?q=zzzz-not-there", &none)
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Reviews)
	assert.Equal(t, 0, none.Stats.Breakdown[0].Percentage)
}

func TestListReviews_BadParams(t *testing.T) {
	router := setupRouter(testDeps(t))

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/reviews?sort=random", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/reviews?rating=6", nil).Code)
}

func TestReviewStats(t *testing.T) {
	router := setupRouter(testDeps(t))

	var body struct {
		Published api.StatsView `json:"published"`
		Derived   api.StatsView `json:"derived"`
		Drift     reviews.Drift `json:"drift"`
	}
	w := get(t, router, "/api/v1/reviews/stats", &body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4.88 out of 5 based on 41 reviews", body.Published.Summary)
	assert.Equal(t, body.Published.Breakdown, body.Derived.Breakdown)
	assert.True(t, body.Drift.InSync)
}

func TestPropertyContent(t *testing.T) {
	router := setupRouter(testDeps(t))

	var amenities struct {
		Groups []property.AmenityGroup `json:"groups"`
		Total  int                     `json:"total"`
	}
	get(t, router, "/api/v1/amenities", &amenities)
	assert.Len(t, amenities.Groups, 11)
	assert.Equal(t, 55, amenities.Total)

	var group property.AmenityGroup
	get(t, router, "/api/v1/amenities?category=outdoor", &group)
	assert.Equal(t, "outdoor", group.Category)
	assert.NotEmpty(t, group.Items)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/amenities?category=spaceport", nil).Code)

	var faqs struct {
		FAQs  []property.FAQ `json:"faqs"`
		Count int            `json:"count"`
	}
	get(t, router, "/api/v1/faqs", &faqs)
	assert.Equal(t, 17, faqs.Count)

	get(t, router, "/api/v1/faqs?category=booking", &faqs)
	for _, f := range faqs.FAQs {
		assert.Equal(t, property.FAQBooking, f.Category)
	}

	get(t, router, "/api/v1/faqs?q=PETS", &faqs)
	assert.NotZero(t, faqs.Count)

	for _, path := range []string{"/api/v1/property", "/api/v1/location", "/api/v1/house-rules"} {
		assert.Equal(t, http.StatusOK, get(t, router, path, nil).Code, path)
	}
}

func TestListGallery(t *testing.T) {
	deps := testDeps(t)
	router := setupRouter(deps)

	var body struct {
		Images     []api.GalleryImage `json:"images"`
		Count      int                `json:"count"`
		Categories []string           `json:"categories"`
	}
	get(t, router, "/api/v1/gallery", &body)
	assert.Equal(t, 48, body.Count)
	assert.Equal(t, "Living Room", body.Categories[0])
	assert.Equal(t, body.Images[0].SourceURL, body.Images[0].URL)

	get(t, router, "/api/v1/gallery?featured=true", &body)
	assert.Equal(t, 4, body.Count)

	get(t, router, "/api/v1/gallery?category=Kitchen", &body)
	assert.Equal(t, 4, body.Count)

	deps.Config.GalleryConfig.ManifestPath = filepath.Join(t.TempDir(), "missing.json")
	broken := setupRouter(deps)
	assert.Equal(t, http.StatusInternalServerError, get(t, broken, "/api/v1/gallery", nil).Code)
}

func TestHealthAndVersion(t *testing.T) {
	deps := testDeps(t)
	router := setupRouter(deps)

	assert.Equal(t, http.StatusOK, get(t, router, "/health", nil).Code)

	var version map[string]string
	get(t, router, "/api/v1/version", &version)
	assert.Equal(t, "pelicans-place", version["name"])

	h := health.NewHealthChecker("test")
	h.AddChecker(&health.FileChecker{Path: filepath.Join(t.TempDir(), "nope.json"), Name: "gallery_manifest"})
	deps.Health = h
	router = setupRouter(deps)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/health/ready", nil).Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/health/live", nil).Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(testDeps(t))
	w := get(t, router, "/api/v1/version", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
