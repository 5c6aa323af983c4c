package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "users-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）；排队超过 wait 直接 503
func ConcurrencyLimit(max int64, wait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(resp.CodeServiceUnavailable, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
