// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/merchkit/storefront-backend/internal/i18n"
	"github.com/merchkit/storefront-backend/internal/utils"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks one token bucket per caller. Callers are keyed by
// guest session when the cart session header is present, so shoppers
// behind a shared NAT do not exhaust each other's budget, and by IP
// otherwise.
type RateLimiter struct {
	clients map[string]*client
	mtx     sync.Mutex
	rate    rate.Limit
	burst   int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		rate:    r,
		burst:   b,
	}
	go rl.evictIdle()
	return rl
}

// evictIdle drops buckets idle for a few minutes so the map does not
// grow with one entry per session ever seen.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mtx.Lock()
		for key, cl := range rl.clients {
			if time.Since(cl.lastSeen) > 3*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.clients[key] = &client{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("session_id")
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.bucketFor(key).Allow() {
			lang := utils.GetLangFromContext(c)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   i18n.T(lang, i18n.KeyRateLimitExceeded),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

var (
	generalLimiter  = NewRateLimiter(rate.Every(time.Second), 20) // browsing and cart edits
	authLimiter     = NewRateLimiter(rate.Every(12*time.Second), 5)
	checkoutLimiter = NewRateLimiter(rate.Every(10*time.Second), 3)
	uploadLimiter   = NewRateLimiter(rate.Every(6*time.Second), 10)
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware()
}

// AuthRateLimit covers login, registration and password reset, where
// slow buckets blunt credential stuffing.
func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware()
}

// CheckoutRateLimit throttles order creation and payment intents.
func CheckoutRateLimit() gin.HandlerFunc {
	return checkoutLimiter.Middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware()
}
