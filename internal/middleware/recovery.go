package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/logger"
)

// Recovery turns a panic in a handler into a logged 500 JSON response
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Ctx(c.Request.Context()).Error().
					Interface("panic", err).
					Str("path", c.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
					"code":  "internal",
				})
			}
		}()
		c.Next()
	}
}
