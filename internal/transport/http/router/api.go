package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"users-api/internal/core/config"
	"users-api/internal/core/server"
	"users-api/internal/transport/http/handler"
	mdw "users-api/internal/transport/http/middleware"
)

type Options struct {
	Mode         string
	AllowOrigins []string
	Limits       config.Limits // 各项 <=0 表示不挂对应中间件
}

func NewAPIEngine(l *zap.Logger, o Options, users *handler.UserHandler) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: o.Mode, AllowOrigins: o.AllowOrigins}, mdw.RecoveryResponder)
	r.Use(middlewares(l, o.Limits)...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	users.Mount(r.Group("/users"))
	return r
}

// middlewares 日志与指标放在限流前面，被拒的请求也要记下来
func middlewares(l *zap.Logger, lim config.Limits) []gin.HandlerFunc {
	mws := []gin.HandlerFunc{mdw.RequestID(), mdw.AccessLog(l), mdw.Metrics()}
	if lim.RPS > 0 {
		mws = append(mws, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		mws = append(mws, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	if lim.MaxConcurrent > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(lim.MaxConcurrent, time.Duration(lim.QueueWaitMs)*time.Millisecond))
	}
	if lim.MaxBodyBytes > 0 {
		mws = append(mws, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.RequestTimeoutS > 0 {
		mws = append(mws, mdw.Timeout(time.Duration(lim.RequestTimeoutS)*time.Second))
	}
	return mws
}
