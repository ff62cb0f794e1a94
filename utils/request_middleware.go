package utils

import (
	"time"

	"portfolio/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs it once done
func RequestLogger(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}
	c.Header(RequestIDHeader, requestID)
	logging.WithRequestID(c, requestID)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	event := logging.Ctx(c).Info()
	if status >= 500 {
		event = logging.Ctx(c).Error()
	} else if status >= 400 {
		event = logging.Ctx(c).Warn()
	}
	event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Str("ip", c.ClientIP()).
		Msg("request")
}
