package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit gates requests per client IP with a token bucket of r
// requests per second and burst b. Chat bots hammering the action
// endpoints get 429s instead of queueing up.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	visitors := &sync.Map{}

	// Idle IPs are swept so the map does not grow with every client
	// the server ever saw.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-10 * time.Minute)
			visitors.Range(func(k, v interface{}) bool {
				if v.(*visitor).lastSeen.Before(cutoff) {
					visitors.Delete(k)
				}
				return true
			})
		}
	}()

	lookup := func(ip string) *rate.Limiter {
		v, _ := visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(r, b)})
		vis := v.(*visitor)
		vis.lastSeen = time.Now()
		return vis.limiter
	}

	return func(c *gin.Context) {
		if !lookup(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
