package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"users-api/internal/domain"
	"users-api/internal/service"
	httpez "users-api/internal/transport/http/ez"
)

// UserService 用户端所需能力（*service.UserService 实现）
type UserService interface {
	Create(ctx context.Context, in service.CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type UserHandler struct{ svc UserService }

func NewUserHandler(svc UserService) *UserHandler { return &UserHandler{svc: svc} }

type createUserReq struct {
	Name  string `json:"name"  binding:"required,max=128"`
	Email string `json:"email" binding:"required,email,max=191"`
	Age   *int   `json:"age"   binding:"required,gte=0"`
}

type updateUserReq struct {
	ID       string  `uri:"id" json:"-" binding:"required"`
	Name     *string `json:"name"     binding:"omitempty,min=1,max=128"`
	Email    *string `json:"email"    binding:"omitempty,email,max=191"`
	Age      *int    `json:"age"      binding:"omitempty,gte=0"`
	IsActive *bool   `json:"isActive"`
}

type idReq struct {
	ID string `uri:"id" binding:"required"`
}

type nameReq struct {
	Name string `uri:"name" binding:"required"`
}

type userOut struct {
	User *domain.User `json:"user"`
}

type usersOut struct {
	Users []domain.User `json:"users"`
}

// countOut 字段名沿用 "users"，保持对外契约
type countOut struct {
	Users int64 `json:"users"`
}

// Mount 挂到 /users 分组
func (h *UserHandler) Mount(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[createUserReq, userOut]{
		Method: http.MethodPost,
		Path:   "/create",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *createUserReq) (userOut, error) {
			u, err := h.svc.Create(c.Request.Context(), service.CreateUserInput{
				Name: in.Name, Email: in.Email, Age: *in.Age,
			})
			if err != nil {
				return userOut{}, mapErr(err)
			}
			return userOut{User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[updateUserReq, userOut]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindURIJSON,
		Handler: func(c *gin.Context, in *updateUserReq) (userOut, error) {
			u, err := h.svc.Update(c.Request.Context(), in.ID, domain.UserPatch{
				Name: in.Name, Email: in.Email, Age: in.Age, IsActive: in.IsActive,
			})
			if err != nil {
				return userOut{}, mapErr(err)
			}
			return userOut{User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[idReq, userOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *idReq) (userOut, error) {
			u, err := h.svc.Delete(c.Request.Context(), in.ID)
			if err != nil {
				return userOut{}, mapErr(err)
			}
			return userOut{User: u}, nil
		},
	})

	list := httpez.Action[struct{}, usersOut]{
		Method: http.MethodGet,
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (usersOut, error) {
			us, err := h.svc.List(c.Request.Context())
			if err != nil {
				return usersOut{}, mapErr(err)
			}
			if us == nil {
				us = []domain.User{}
			}
			return usersOut{Users: us}, nil
		},
	}
	// /users 与 /users/ 都可访问，避免 301
	list.Path = ""
	httpez.RegisterAction(ez, list)
	list.Path = "/"
	httpez.RegisterAction(ez, list)

	httpez.RegisterAction(ez, httpez.Action[struct{}, countOut]{
		Method: http.MethodGet,
		Path:   "/count",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := h.svc.Count(c.Request.Context())
			if err != nil {
				return countOut{}, mapErr(err)
			}
			return countOut{Users: n}, nil
		},
	})

	// 查不到返回 {"user": null}，不是 404
	httpez.RegisterAction(ez, httpez.Action[idReq, userOut]{
		Method: http.MethodGet,
		Path:   "/id/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *idReq) (userOut, error) {
			u, err := h.svc.Get(c.Request.Context(), in.ID)
			if err != nil {
				return userOut{}, mapErr(err)
			}
			return userOut{User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[nameReq, userOut]{
		Method: http.MethodGet,
		Path:   "/name/:name",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *nameReq) (userOut, error) {
			u, err := h.svc.GetByName(c.Request.Context(), in.Name)
			if err != nil {
				return userOut{}, mapErr(err)
			}
			return userOut{User: u}, nil
		},
	})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return httpez.NotFound(err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		return httpez.Conflict(err.Error())
	}
	return err
}
