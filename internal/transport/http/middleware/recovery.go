package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "users-api/internal/transport/http/response"
)

// RecoveryResponder 配合 ginzap.CustomRecoveryWithZap：日志由 ginzap 打，这里只负责回包
func RecoveryResponder(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "internal error"))
}
