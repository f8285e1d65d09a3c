package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"migration-console/internal/pkg/logger"
)

// LoggerMiddleware 访问日志，SSE 长连接在断开时才记录
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ContextKeyRequestID)),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		msg := fmt.Sprintf("%s %s %d %.3fs %s", c.Request.Method, path, c.Writer.Status(), cost.Seconds(), query)
		if c.Writer.Status() >= 500 {
			logger.Error(msg, fields...)
			return
		}
		logger.Info(msg, fields...)
	}
}
