package middleware

import (
	"time"

	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

// RequestLogger tags each request with an id (reusing an incoming
// X-Request-Id) and logs the outcome once the handler chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqId := c.GetHeader(RequestIdHeader)
		if reqId == "" {
			reqId = uuid.NewString()
		}
		c.Set("request_id", reqId)
		c.Header(RequestIdHeader, reqId)

		start := time.Now()
		c.Next()

		user := "-"
		if id := session.IdentityFrom(c); id != nil {
			user = id.Username
		}
		if last := c.Errors.Last(); last != nil {
			logger.Debugf("[%s] %s %s %d %s user=%s err=%v",
				reqId, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), user, last.Err)
			return
		}
		logger.Debugf("[%s] %s %s %d %s user=%s",
			reqId, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), user)
	}
}
