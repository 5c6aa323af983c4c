package response

// 错误码直接沿用 HTTP 语义，响应状态码与 code 一致
const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeConflict           = 409
	CodeTooLarge           = 413
	CodeTooManyRequests    = 429
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeTimeout            = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:                 "OK",
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthorized",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeConflict:           "Conflict",
	CodeTooLarge:           "Request Entity Too Large",
	CodeTooManyRequests:    "Too Many Requests",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeTimeout:            "Gateway Timeout",
}

// Status code → HTTP 状态码；OK 与未知码分别落到 200/500
func Status(code int) int {
	switch {
	case code == CodeOK:
		return 200
	case code >= 400 && code < 600:
		return code
	}
	return 500
}
