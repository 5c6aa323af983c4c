package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"users-api/internal/core/config"
)

// New 按配置构建 zap：JSON 用于生产，console 用于本地；
// c.File.Filename 非空时同时写滚动文件。返回的 func 用于退出前 Sync。
func New(c config.Log, app string) (*zap.Logger, func()) {
	return build(c, os.Stdout, app)
}

func build(c config.Log, out zapcore.WriteSyncer, app string) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(c.Level); err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := encoder(c.JSON)

	cores := []zapcore.Core{zapcore.NewCore(enc, out, lvl)}
	var rot *lumberjack.Logger
	if f := c.File; f.Filename != "" {
		rot = &lumberjack.Logger{
			Filename:   f.Filename,
			MaxSize:    max(1, f.MaxSizeMB),
			MaxBackups: max(0, f.MaxBackups),
			MaxAge:     max(0, f.MaxAgeDays),
			Compress:   f.Compress,
		}
		// 文件始终用 JSON，方便采集
		cores = append(cores, zapcore.NewCore(encoder(true), zapcore.AddSync(rot), lvl))
	}

	// 每秒同一条消息前 100 条全量，之后每 100 条取 1
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	if app != "" {
		l = l.With(zap.String("app", app))
	}
	return l, func() {
		_ = l.Sync()
		if rot != nil {
			_ = rot.Close()
		}
	}
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type lineWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 把按行写入的第三方日志（如 gorm）接到 zap
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &lineWriter{l: l, level: level}
}

// ToStdLogger 给 http.Server.ErrorLog 用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
