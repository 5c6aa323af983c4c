package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"users-api/internal/core/auth"
	"users-api/internal/core/config"
	"users-api/internal/core/database"
	"users-api/internal/core/logger"
	"users-api/internal/core/server"
	"users-api/internal/repo"
	"users-api/internal/service"
	"users-api/internal/transport/http/handler"
	"users-api/internal/transport/http/router"
	"users-api/pkg/utils"
)

func main() {
	hashPw := flag.String("hash-password", "", "print bcrypt hash for admin.passwordHash and exit")
	flag.Parse()
	if *hashPw != "" {
		h, err := utils.HashPassword(*hashPw)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(h)
		return
	}

	_ = godotenv.Load()
	cfg := config.MustLoad("")
	log, cleanup := logger.New(cfg.Log, cfg.App.Name+"-admin")
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.JWT.Secret == "" || cfg.Admin.Username == "" || cfg.Admin.PasswordHash == "" {
		log.Fatal("admin api needs jwt.secret, admin.username and admin.passwordHash")
	}

	// DB 连接（失败直接 Fatal）；表结构由用户端负责迁移
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 依赖
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	userSvc := service.NewUserService(repo.NewUserRepo(db), nil, log)
	adminH := handler.NewAdminHandler(userSvc, jwter, handler.AdminCredentials{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	})

	// 路由（后台端）
	r := router.NewAdminEngine(log, router.Options{
		Mode:         "release",
		AllowOrigins: cfg.CORS.AllowOrigins,
		Limits:       cfg.Limits,
	}, jwter, adminH)

	errLog, _ := logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second, errLog)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	// 关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("admin api shutdown", zap.Error(err))
	}
	log.Info("admin api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
