package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gilby125/pelicans-place/config"
	"github.com/gin-gonic/gin"
)

// AdminAuth guards the outbox and cache admin routes with either a bearer
// token or basic credentials. Disabled auth lets everything through.
func AdminAuth(cfg config.AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		if cfg.Token != "" {
			if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && equal(token, cfg.Token) {
				c.Next()
				return
			}
		}

		if cfg.Username != "" && cfg.Password != "" {
			if user, pass, ok := c.Request.BasicAuth(); ok && equal(user, cfg.Username) && equal(pass, cfg.Password) {
				c.Next()
				return
			}
		}

		c.Header("WWW-Authenticate", `Basic realm="Pelican's Place admin"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized: valid admin credentials required",
		})
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
