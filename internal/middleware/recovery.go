package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bank-recon/pkg/logger"
	"bank-recon/pkg/response"
)

// Recovery turns panics into a 500 response instead of dropping the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().WithField("panic", err).WithField("path", c.Request.URL.Path).Error("Panic recovered")
				response.InternalError(c, "Internal server error", "An unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler reports errors attached to the context during handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logger.GetLogger().WithError(err.Err).Error("Request error")

		if c.Writer.Status() == http.StatusOK && !c.Writer.Written() {
			response.InternalError(c, "Request failed", err.Error())
		}
	}
}
