package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	// 默认路径不存在（等价于 Go 1.24 的 t.Chdir）
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.HTTP.Port != 3009 || c.App.HTTP.Host != "0.0.0.0" {
		t.Fatalf("http = %+v", c.App.HTTP)
	}
	if c.DB.Driver != "sqlite" || !c.DB.AutoMigrate {
		t.Fatalf("db = %+v", c.DB)
	}
	if c.Cache.Enabled || c.Events.Enabled {
		t.Fatal("redis features must be off by default")
	}
	if c.Limits.RequestTimeoutS != 10 || c.Limits.MaxBodyBytes != 1<<20 {
		t.Fatalf("limits = %+v", c.Limits)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  http:
    port: 8080
db:
  driver: postgres
  dsn: postgres://u:p@localhost:5432/users
redis:
  addr: localhost:6379
cache:
  enabled: true
  ttlSec: 30
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_DB_DSN", "postgres://override/users")
	t.Setenv("APP_LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", c.App.HTTP.Port)
	}
	if c.DB.Driver != "postgres" || c.DB.DSN != "postgres://override/users" {
		t.Errorf("db = %+v", c.DB)
	}
	if c.Log.Level != "debug" {
		t.Errorf("log level = %q", c.Log.Level)
	}
	if c.Redis.Addr != "localhost:6379" || !c.Cache.Enabled || c.Cache.TTLSec != 30 {
		t.Errorf("redis/cache = %+v %+v", c.Redis, c.Cache)
	}
	if c.App.HTTP.IdleTimeoutSec != 60 {
		t.Errorf("defaults should fill unset keys, idle = %d", c.App.HTTP.IdleTimeoutSec)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit config path that does not exist must fail")
	}
}
