package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/merchkit/storefront-backend/internal/config"
)

// GuestSession lifts the guest session ID from the configured header into the
// request context so cart handlers can resolve guest carts without parsing
// headers themselves. Callers without the header simply get no session_id key.
func GuestSession(cfg *config.Config) gin.HandlerFunc {
	header := cfg.Cart.SessionHeader
	if header == "" {
		header = "X-Session-ID"
	}

	return func(c *gin.Context) {
		if sessionID := c.GetHeader(header); sessionID != "" {
			c.Set("session_id", sessionID)
		}
		c.Next()
	}
}
