package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gilby125/pelicans-place/pkg/cache"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CacheConfig holds cache middleware configuration
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	SkipPaths []string
}

// CachedResponse represents a cached HTTP response
type CachedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers"`
	Body        []byte            `json:"body"`
	ContentType string            `json:"content_type"`
	CachedAt    time.Time         `json:"cached_at"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// ResponseCache serves repeated GETs of JSON content from the cache. Only 2xx
// JSON responses are stored.
func ResponseCache(m *cache.Manager, cfg CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || skipped(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(cfg.KeyPrefix, c.Request)
		log := logger.WithContext(ctx).WithField("cache_key", key)

		var hit CachedResponse
		err := m.GetJSON(ctx, key, &hit)
		if err == nil {
			for k, v := range hit.Headers {
				c.Header(k, v)
			}
			c.Header("X-Cache", "HIT")
			c.Data(hit.StatusCode, hit.ContentType, hit.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Error(err, "Cache get error")
		}

		c.Header("X-Cache", "MISS")
		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		status := w.Status()
		contentType := w.Header().Get("Content-Type")
		if status < 200 || status >= 300 || !strings.Contains(contentType, "application/json") {
			return
		}

		entry := CachedResponse{
			StatusCode:  status,
			Headers:     map[string]string{},
			Body:        w.body.Bytes(),
			ContentType: contentType,
			CachedAt:    time.Now().UTC(),
		}
		for _, h := range []string{"Cache-Control", "ETag", "Last-Modified"} {
			if v := w.Header().Get(h); v != "" {
				entry.Headers[h] = v
			}
		}
		if err := m.SetJSON(ctx, key, entry, cfg.TTL); err != nil {
			log.Error(err, "Cache set error")
		}
	}
}

func cacheKey(prefix string, req *http.Request) string {
	sum := sha256.Sum256([]byte(req.URL.Path + "?" + req.URL.RawQuery + "|" + req.Header.Get("Accept-Language")))
	key := "response:" + hex.EncodeToString(sum[:16])
	if prefix != "" {
		return prefix + ":" + key
	}
	return key
}

func skipped(paths []string, path string) bool {
	for _, p := range paths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
