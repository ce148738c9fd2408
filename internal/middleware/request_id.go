package middleware

import (
	"code_practice_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's request id or assigns a new one, echoes it
// back in the response header and attaches a logger tagged with it to the
// request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		ctx := logger.NewContext(c.Request.Context(), logger.Log.With(zap.String("request_id", id)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
