package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// ContextRequestID is the gin context key carrying the correlation id; the
// logging middleware and handlers read it from here.
const ContextRequestID = "request_id"

// RequestID tags every request with a correlation id. An inbound X-Request-ID
// is kept only when it parses as a uuid, so callers cannot inject arbitrary
// strings into the saga logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ContextRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}
