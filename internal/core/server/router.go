package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Mode         string   // gin 模式：debug / release / test
	AllowOrigins []string // 为空或含 "*" 时放开所有来源
}

// NewRouter 基础引擎：panic 恢复（zap 记栈）+ CORS，其余中间件由各引擎自行挂
func NewRouter(l *zap.Logger, o Options, recovery gin.RecoveryFunc) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(l, true, recovery))
	r.Use(cors.New(corsConfig(o.AllowOrigins)))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration, errLog *log.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
		ErrorLog:          errLog,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
