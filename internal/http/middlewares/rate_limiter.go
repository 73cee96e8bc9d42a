package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle client entry survives before being pruned.
const staleAfter = 10 * time.Minute

type RateLimiter struct {
	mu        sync.Mutex
	rate      int
	burst     int
	tokens    map[string]int
	lastTime  map[string]time.Time
	lastPrune time.Time
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:      rate,
		burst:     burst,
		tokens:    make(map[string]int),
		lastTime:  make(map[string]time.Time),
		lastPrune: time.Now(),
	}
}

// prune drops entries for clients idle long enough to have a full bucket
// anyway. Called with the mutex held.
func (rl *RateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < staleAfter {
		return
	}
	for ip, last := range rl.lastTime {
		if now.Sub(last) > staleAfter {
			delete(rl.tokens, ip)
			delete(rl.lastTime, ip)
		}
	}
	rl.lastPrune = now
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()
		rl.prune(now)

		if _, exists := rl.tokens[ip]; !exists {
			rl.tokens[ip] = rl.burst
			rl.lastTime[ip] = now
		}

		elapsed := now.Sub(rl.lastTime[ip])
		rl.lastTime[ip] = now

		tokensToAdd := int(elapsed.Seconds()) * rl.rate
		rl.tokens[ip] += tokensToAdd
		if rl.tokens[ip] > rl.burst {
			rl.tokens[ip] = rl.burst
		}

		if rl.tokens[ip] <= 0 {
			rl.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		rl.tokens[ip]--
		rl.mu.Unlock()

		c.Next()
	}
}
