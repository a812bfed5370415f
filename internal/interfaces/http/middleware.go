package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	agencyHeader = "X-Agency-ID"
	agencyKey    = "agency_id"
)

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// agencyMiddleware resolves the agency a request acts on from the
// X-Agency-ID header, falling back to defaultID
func agencyMiddleware(defaultID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(agencyHeader))
		if id == "" {
			id = defaultID
		}
		c.Set(agencyKey, id)
		c.Next()
	}
}

func agencyID(c *gin.Context) string {
	return c.GetString(agencyKey)
}
