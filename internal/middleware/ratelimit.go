package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, exists := l.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(l.rate, l.burst)
		l.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// DailyQuota manages the global daily generation quota
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64) *DailyQuota {
	return &DailyQuota{
		limit:   limit,
		resetAt: nextMidnightUTC(),
	}
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Check if we need to reset
	if time.Now().After(q.resetAt) {
		log.Printf("[QUOTA] Daily quota reset. Previous count: %d", q.count)
		q.count = 0
		q.resetAt = nextMidnightUTC()
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// ResetAt returns when the quota next resets
func (q *DailyQuota) ResetAt() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resetAt
}

// nextMidnightUTC returns the next midnight in UTC
func nextMidnightUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

// RateLimitMiddleware applies two-stage rate limiting to the generate route:
// 1. global daily quota (DailyQuota) -> 429 + Retry-After on exhaustion
// 2. per-IP rate limit (IPRateLimiter) -> 429 + Retry-After on burst
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !quota.Allow() {
			retryAfter := int(time.Until(quota.ResetAt()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Daily generation quota exhausted. Please come back tomorrow.",
				"code":  "QUOTA_EXHAUSTED",
			})
			return
		}

		if !ipLimiter.GetLimiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please slow down.",
				"code":  "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
