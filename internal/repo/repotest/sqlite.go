// Package repotest 提供基于临时 sqlite 文件的测试库
package repotest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"users-api/internal/core/database"
	"users-api/internal/repo"
)

func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "users.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
