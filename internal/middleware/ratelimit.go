package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc extracts the bucket key from a request; defaults to client IP
	KeyFunc func(c *gin.Context) string
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   100,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

// AuthRateLimitConfig returns stricter limits for auth endpoints
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   10,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

// UploadRateLimitConfig returns limits for media upload endpoints
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   20,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

// GenerationRateLimitConfig returns limits for AI generation endpoints,
// which are expensive upstream
func GenerationRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   15,
		Window:  time.Minute,
		KeyFunc: clientIPKey,
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// TokenBucket for rate limiting
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request is allowed based on token availability
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// GetRetryAfter returns seconds to wait before next request
func (tb *TokenBucket) GetRetryAfter() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens < 1 {
		timeToToken := (1 - tb.tokens) / tb.refillRate
		return int(timeToToken) + 1
	}
	return 0
}

// RateLimiter keeps a token bucket per client key
type RateLimiter struct {
	buckets map[string]*TokenBucket
	config  RateLimitConfig
	mu      sync.RWMutex
}

// NewRateLimiter creates a new rate limiting middleware
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	rl := &RateLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if !rl.Allow(key) {
			RecordRateLimitExceeded(c.FullPath(), c.Request.Method)
			retryAfter := rl.GetRetryAfter(key)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}

// Allow checks if a key is allowed to make a request
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[key]
	if !exists {
		refillRate := float64(rl.config.Limit) / rl.config.Window.Seconds()
		bucket = NewTokenBucket(float64(rl.config.Limit), refillRate)
		rl.buckets[key] = bucket
	}
	return bucket.Allow()
}

// GetRetryAfter gets retry-after seconds for a key
func (rl *RateLimiter) GetRetryAfter(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	bucket, exists := rl.buckets[key]
	if !exists {
		return 1
	}
	return bucket.GetRetryAfter()
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// RateLimit returns a middleware with default configuration
func RateLimit() gin.HandlerFunc {
	return NewRateLimiter(DefaultRateLimitConfig())
}

// RateLimitAuth returns a middleware for auth endpoints
func RateLimitAuth() gin.HandlerFunc {
	return NewRateLimiter(AuthRateLimitConfig())
}

// RateLimitUpload returns a middleware for upload endpoints
func RateLimitUpload() gin.HandlerFunc {
	return NewRateLimiter(UploadRateLimitConfig())
}

// RateLimitGeneration returns a middleware for AI generation endpoints
func RateLimitGeneration() gin.HandlerFunc {
	return NewRateLimiter(GenerationRateLimitConfig())
}
