package middleware

import (
	"Orion_Tube/pkg/errno"
	"Orion_Tube/pkg/logger"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-ID"

// RequestID 每个请求一个request_id：上游带了就沿用，没有就生成，回写到响应头。请求结束后记一条访问日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		logger.Log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}).Info("请求处理完成")
	}
}

// Timeout 给请求的ctx加上截止时间，存储调用超过这个时间会返回DeadlineExceeded，最终映射为504
// handler都是同步执行的，这里只负责传递截止时间；handler没来得及响应时兜底返回Timeout
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !c.Writer.Written() && ctx.Err() == context.DeadlineExceeded {
			abort(c, errno.Timeout)
		}
	}
}
