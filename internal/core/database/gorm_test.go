package database

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
		},
		{
			name: "jdbc url with navicat params",
			in:   "jdbc:mysql://root:pw@localhost:3306/app?useSSL=false&serverTimezone=UTC&characterEncoding=utf8&useUnicode=true",
			want: "root:pw@tcp(localhost:3306)/app?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "credential overrides",
			in:   "mysql://root:pw@db:3306/users",
			user: "svc",
			pass: "hunter2",
			want: "svc:hunter2@tcp(db:3306)/users?charset=utf8mb4&parseTime=true",
		},
		{
			name: "credentials from query",
			in:   "mysql://db:3306/users?user=q&password=p",
			want: "q:p@tcp(db:3306)/users?charset=utf8mb4&parseTime=true",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeMySQLDSN(tt.in, tt.user, tt.pass)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskDSN(t *testing.T) {
	got := maskDSN("root:secret@tcp(db:3306)/app")
	if got != "root:****@tcp(db:3306)/app" {
		t.Fatalf("got %q", got)
	}
}

func TestNewGorm_SQLite(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "t.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
		t.Fatalf("select 1: %v (%d)", err, one)
	}
	if err := Close(db); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}
