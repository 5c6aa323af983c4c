package middleware

import (
	"github.com/gin-gonic/gin"

	"users-api/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// 外部传入的 rid 过长或含非可见字符时重新生成，避免污染日志
const maxRequestIDLen = 64

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if !validRequestID(rid) {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
