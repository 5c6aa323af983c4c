package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"users-api/internal/core/auth"
	"users-api/internal/domain"
	mdw "users-api/internal/transport/http/middleware"
	"users-api/pkg/utils"
)

type stubSearcher struct {
	got domain.UserFilter
	err error
}

func (s *stubSearcher) Search(_ context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	s.got = f
	if s.err != nil {
		return nil, 0, s.err
	}
	return []domain.User{*ana}, 1, nil
}

func newAdminRouter(t *testing.T, users UserSearcher) (*gin.Engine, *auth.JWTer) {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "users-api", TTL: time.Minute}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/admin/v1")
	authed := v1.Group("")
	authed.Use(mdw.AuthJWT(j, "admin"))
	NewAdminHandler(users, j, AdminCredentials{Username: "root", PasswordHash: hash}).Mount(v1, authed)
	return r, j
}

func TestAdminLogin(t *testing.T) {
	r, j := newAdminRouter(t, &stubSearcher{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"ok", `{"username":"root","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"root","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"admin","password":"s3cret"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"root"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/admin/v1/auth/login", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var out loginOut
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatal(err)
			}
			claims, err := j.Parse(out.Token)
			if err != nil || claims.Role != "admin" || claims.UID != "root" {
				t.Fatalf("claims %+v err %v", claims, err)
			}
		})
	}
}

func TestAdminListUsers(t *testing.T) {
	s := &stubSearcher{}
	r, j := newAdminRouter(t, s)

	if w := do(r, http.MethodGet, "/admin/v1/users", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status %d", w.Code)
	}

	tok, _ := j.Issue("root", "admin")
	get := func(url string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/admin/v1/users?q=ana&offset=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if s.got.Q != "ana" || s.got.Offset != 5 || s.got.Limit != 20 {
		t.Fatalf("filter = %+v", s.got)
	}
	var out listOut
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Total != 1 || len(out.Items) != 1 {
		t.Fatalf("body %s", w.Body.String())
	}

	if w := get("/admin/v1/users?limit=1000"); w.Code != http.StatusBadRequest {
		t.Fatalf("limit over max status %d", w.Code)
	}

	s.err = errors.New("db down")
	if w := get("/admin/v1/users"); w.Code != http.StatusInternalServerError {
		t.Fatalf("store error status %d", w.Code)
	}
}
