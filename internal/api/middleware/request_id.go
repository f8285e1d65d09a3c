package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"migration-console/internal/pkg/httpclient"
)

const ContextKeyRequestID = "request_id"

// RequestIDMiddleware 沿用入站 X-Request-Id，没有则生成
// id 写入 request context，转发给后端时带上同一个 id
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(httpclient.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(httpclient.WithRequestID(c.Request.Context(), id))
		c.Header(httpclient.HeaderRequestID, id)
		c.Next()
	}
}
