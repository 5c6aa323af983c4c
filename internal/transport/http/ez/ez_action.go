package ez

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	resp "users-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON    Binder = "json"     // 从 JSON 绑定
	BindQuery   Binder = "query"    // 从 URL ?a=b 绑定
	BindURI     Binder = "uri"      // 从路径参数 :id 绑定
	BindURIJSON Binder = "uri+json" // 先路径参数，再 JSON（同一结构体）
	BindNone    Binder = "none"     // 不绑定
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/create"、"/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Status  int      // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString("userId") == "" {
				abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, c.GetString("role")) {
				abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		case BindURIJSON:
			// 路径参数只映射不校验，整体校验交给 JSON 绑定
			if bindErr = mapURI(c, &in); bindErr == nil {
				bindErr = c.ShouldBindJSON(&in)
			}
		default: // BindNone
		}
		if bindErr != nil {
			writeBindError(c, bindErr)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)

		// 4) 统一错误映射
		if err != nil {
			writeError(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func writeError(c *gin.Context, err error) {
	var ae *AErr
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		abort(c, resp.CodeTimeout, "timeout")
	case errors.As(err, &ae):
		if ae.Err != nil {
			_ = c.Error(ae.Err)
		}
		abort(c, ae.Code, ae.Error())
	default:
		_ = c.Error(err)
		abort(c, resp.CodeServerError, "")
	}
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}
