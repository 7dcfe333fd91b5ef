package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 报价行批量提交是最大的正常请求体，上限取 1MB 量级即可
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		var maxErr *http.MaxBytesError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &maxErr) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体超出大小限制")
				return
			}
		}
	}
}
