package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"users-api/internal/core/auth"
	"users-api/internal/domain"
	httpez "users-api/internal/transport/http/ez"
	"users-api/pkg/utils"
)

type UserSearcher interface {
	Search(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error)
}

// AdminCredentials 单一管理员账号，密码存 bcrypt 哈希
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type AdminHandler struct {
	users UserSearcher
	jwter *auth.JWTer
	creds AdminCredentials
}

func NewAdminHandler(users UserSearcher, jwter *auth.JWTer, creds AdminCredentials) *AdminHandler {
	return &AdminHandler{users: users, jwter: jwter, creds: creds}
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string `json:"token"`
}

type listQ struct {
	Offset int    `form:"offset,default=0"  binding:"gte=0"`
	Limit  int    `form:"limit,default=20"  binding:"gte=0,lte=100"`
	Q      string `form:"q"` // 按 email/name 模糊搜
}

type listOut struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

// Mount public 挂登录；authed 需已走 AuthJWT("admin")
func (h *AdminHandler) Mount(public, authed *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(public), httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(in.Username)), []byte(h.creds.Username)) == 1
			// 无论用户名是否正确都跑一次 bcrypt，避免时序差异
			pwOK := utils.CheckPassword(in.Password, h.creds.PasswordHash)
			if !userOK || !pwOK || h.creds.Username == "" {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			tok, err := h.jwter.Issue(h.creds.Username, "admin")
			if err != nil {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok}, nil
		},
	})

	httpez.RegisterAction(httpez.New(authed), httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := h.users.Search(c.Request.Context(), domain.UserFilter{
				Q: in.Q, Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return listOut{}, httpez.Internal("search users failed", err)
			}
			return listOut{Total: total, Items: us}, nil
		},
	})
}
