package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKey guards the write surface with a shared key from config. An empty
// expected key disables the check entirely; there is no built-in fallback.
func APIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || key != expected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid API key",
			})
			return
		}

		c.Next()
	}
}
