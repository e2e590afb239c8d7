package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Store counts requests per key in fixed windows.
type Store interface {
	// Take records one request and reports whether it fits within max.
	Take(ctx context.Context, key string, max int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, max int) (int, error)
	Reset(ctx context.Context) error
	Close() error
}

// RateLimiter applies separate per-user and per-IP budgets over a shared store.
type RateLimiter struct {
	store           Store
	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
}

// NewRateLimiter keeps counters in process memory.
func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	return NewRateLimiterWithStore(NewMemoryStore(5*time.Minute), userMaxRequests, ipMaxRequests, window)
}

func NewRateLimiterWithStore(store Store, userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:           store,
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
	}
}

func userKey(userID uint) string { return "user:" + strconv.FormatUint(uint64(userID), 10) }
func ipKey(ip string) string     { return "ip:" + ip }

// CheckUserLimit records a request for the user and reports whether it is allowed.
func (rl *RateLimiter) CheckUserLimit(ctx context.Context, userID uint) bool {
	return rl.take(ctx, userKey(userID), rl.userMaxRequests)
}

// CheckIPLimit records a request for the IP and reports whether it is allowed.
func (rl *RateLimiter) CheckIPLimit(ctx context.Context, ip string) bool {
	return rl.take(ctx, ipKey(ip), rl.ipMaxRequests)
}

func (rl *RateLimiter) GetUserRemaining(ctx context.Context, userID uint) int {
	return rl.remaining(ctx, userKey(userID), rl.userMaxRequests)
}

func (rl *RateLimiter) GetIPRemaining(ctx context.Context, ip string) int {
	return rl.remaining(ctx, ipKey(ip), rl.ipMaxRequests)
}

// take fails open when the store is unreachable.
func (rl *RateLimiter) take(ctx context.Context, key string, max int) bool {
	allowed, err := rl.store.Take(ctx, key, max, rl.window)
	if err != nil {
		logger.Error("rate limit store failed", "key", key, "error", err)
		return true
	}
	return allowed
}

func (rl *RateLimiter) remaining(ctx context.Context, key string, max int) int {
	left, err := rl.store.Remaining(ctx, key, max)
	if err != nil {
		logger.Error("rate limit store failed", "key", key, "error", err)
		return max
	}
	return left
}

func (rl *RateLimiter) reject(c *gin.Context) {
	c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
	AbortWithError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
}

// IPMiddleware rejects clients that exceed the per-IP budget.
func (rl *RateLimiter) IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.CheckIPLimit(c.Request.Context(), c.ClientIP()) {
			rl.reject(c)
			return
		}
		c.Next()
	}
}

// UserMiddleware rejects authenticated users that exceed the per-user budget.
// It must run after RequireAuth.
func (rl *RateLimiter) UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		if !rl.CheckUserLimit(ctx, user.ID) {
			rl.reject(c)
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.GetUserRemaining(ctx, user.ID)))
		c.Next()
	}
}

// Stop releases the store.
func (rl *RateLimiter) Stop() {
	if err := rl.store.Close(); err != nil {
		logger.Warn("failed to close rate limit store", "error", err)
	}
}

// Reset clears all counters.
func (rl *RateLimiter) Reset(ctx context.Context) error {
	return rl.store.Reset(ctx)
}
