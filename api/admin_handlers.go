package api

import (
	"net/http"
	"strconv"

	"github.com/gilby125/pelicans-place/pkg/cache"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/gin-gonic/gin"
)

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}

func outboxUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contact outbox is not enabled"})
}

// listOutbox handles GET /api/v1/admin/contact/outbox
func listOutbox(outbox queue.Outbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		if outbox == nil {
			outboxUnavailable(c)
			return
		}
		ctx := c.Request.Context()
		entries, err := outbox.Pending(ctx, limitParam(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list outbox: " + err.Error()})
			return
		}
		stats, err := outbox.Stats(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read outbox stats: " + err.Error()})
			return
		}
		if entries == nil {
			entries = []*queue.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "stats": stats})
	}
}

// listDeadLetters handles GET /api/v1/admin/contact/dead-letter
func listDeadLetters(outbox queue.Outbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		if outbox == nil {
			outboxUnavailable(c)
			return
		}
		entries, err := outbox.DeadLetters(c.Request.Context(), limitParam(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dead letters: " + err.Error()})
			return
		}
		if entries == nil {
			entries = []*queue.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
	}
}

// retryDeadLetters handles POST /api/v1/admin/contact/dead-letter/retry
func retryDeadLetters(outbox queue.Outbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		if outbox == nil {
			outboxUnavailable(c)
			return
		}
		n, err := outbox.RetryDeadLetters(c.Request.Context(), limitParam(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to requeue dead letters: " + err.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).WithField("requeued", n).Info("Dead letters requeued")
		c.JSON(http.StatusOK, gin.H{"requeued": n})
	}
}

// relayStatus handles GET /api/v1/admin/contact/relay
func relayStatus(relay RelayStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		if relay == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contact relay is not running"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"last_run": relay.LastRun()})
	}
}

// listInstances handles GET /api/v1/admin/instances
func listInstances(lister InstanceLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lister == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Instance registry is not enabled"})
			return
		}
		active, err := lister.ListActive(c.Request.Context(), 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list instances: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"instances": active, "count": len(active)})
	}
}

// clearCache handles DELETE /api/v1/admin/cache
func clearCache(m *cache.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cache is not enabled"})
			return
		}
		n, err := m.Clear(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cache: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": n})
	}
}
