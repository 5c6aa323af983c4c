package main

import (
	"context"
	"errors"
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

	"users-api/internal/core/cache"
	"users-api/internal/core/config"
	"users-api/internal/core/database"
	"users-api/internal/core/events"
	"users-api/internal/core/logger"
	"users-api/internal/core/server"
	"users-api/internal/domain"
	"users-api/internal/repo"
	"users-api/internal/service"
	"users-api/internal/transport/http/handler"
	"users-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad("")
	log, cleanup := logger.New(cfg.Log, cfg.App.Name)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis 可选：缓存与事件共用一个连接
	var (
		users domain.UserRepository = repo.NewUserRepo(db)
		pub   service.EventPublisher
	)
	if cfg.Cache.Enabled || cfg.Events.Enabled {
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		rc.Prefix = cfg.Cache.Prefix
		defer func() { _ = rc.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			log.Fatal("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		if cfg.Cache.Enabled {
			users = repo.NewCachedUserRepo(users, rc, time.Duration(cfg.Cache.TTLSec)*time.Second, log)
			log.Info("user cache enabled", zap.Int("ttl_sec", cfg.Cache.TTLSec))
		}
		if cfg.Events.Enabled {
			pub = events.NewPublisher(rc.RDB, cfg.Events.StreamMax)
			log.Info("user events enabled", zap.String("stream", events.UserEventsStream))
		}
	}

	svc := service.NewUserService(users, pub, log)
	r := router.NewAPIEngine(log, router.Options{
		Mode:         ginMode(cfg.App.Env),
		AllowOrigins: cfg.CORS.AllowOrigins,
		Limits:       cfg.Limits,
	}, handler.NewUserHandler(svc))

	// HTTP Server
	errLog, _ := logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		errLog,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("users", baseURL+"/users"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("user api shutdown", zap.Error(err))
	}
	log.Info("user api stopped gracefully")
}

func ginMode(env string) string {
	if env == "prod" || env == "production" {
		return "release"
	}
	return "debug"
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
