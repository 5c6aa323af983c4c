package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/internal/core/auth"
	"users-api/internal/core/server"
	"users-api/internal/transport/http/handler"
	mdw "users-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, o Options, jwter *auth.JWTer, admin *handler.AdminHandler) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: o.Mode, AllowOrigins: o.AllowOrigins}, mdw.RecoveryResponder)
	r.Use(middlewares(l, o.Limits)...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	// 管理端 v1：登录公开，其余统一要求 admin 角色
	v1 := r.Group("/admin/v1")
	authed := v1.Group("")
	authed.Use(mdw.AuthJWT(jwter, "admin"))
	admin.Mount(v1, authed)

	return r
}
