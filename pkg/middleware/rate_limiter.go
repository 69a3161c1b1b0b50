package middleware

import (
	"net/http"

	"RescueHub/pkg/logger"
	"RescueHub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// RateLimit limits a route by client IP. The rate uses the limiter format,
// e.g. "20-M" for twenty requests per minute.
func RateLimit(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		logger.Warn("invalid rate format, rate limiting disabled", zap.String("rate", rate), zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}

	instance := limiter.New(memory.NewStore(), parsed)

	return func(c *gin.Context) {
		limiterCtx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open; limiting is protective, not correctness-critical
			c.Next()
			return
		}
		if limiterCtx.Reached {
			response.FailWithStatus(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
