package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Filename   string // 为空则不落盘
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Admin 管理端登录账号（密码为 bcrypt 哈希）
type Admin struct {
	Username     string
	PasswordHash string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enabled bool
	TTLSec  int
	Prefix  string
}

type Events struct {
	Enabled   bool
	StreamMax int64
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
	SlowThresholdMs    int
}

type Limits struct {
	RPS             float64
	Burst           int
	PerIPRPS        float64 // 0 表示关闭
	PerIPBurst      int
	MaxConcurrent   int64
	QueueWaitMs     int
	MaxBodyBytes    int64
	RequestTimeoutS int
}

type CORS struct {
	AllowOrigins []string
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Admin  Admin
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Cache  Cache
	Events Events
	Limits Limits
	CORS   CORS
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "users-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3009)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 15)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 3010)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 14)

	v.SetDefault("jwt.issuer", "users-api")
	v.SetDefault("jwt.accessTokenTTLMin", 60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "users.db")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("db.slowThresholdMs", 200)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttlSec", 60)
	v.SetDefault("cache.prefix", "users-api:")
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.streamMax", 10000)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIPRPS", 0)
	v.SetDefault("limits.perIPBurst", 40)
	v.SetDefault("limits.maxConcurrent", 300)
	v.SetDefault("limits.queueWaitMs", 500)
	v.SetDefault("limits.maxBodyBytes", 1<<20)
	v.SetDefault("limits.requestTimeoutS", 10)

	v.SetDefault("cors.allowOrigins", []string{"*"})
}

// Load 读取配置：默认值 < yaml 文件 < APP_ 前缀环境变量。
// path 为空时取 CONFIG_PATH，再退到 ./configs/config.local.yaml；默认路径不存在不算错。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
