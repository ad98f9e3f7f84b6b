package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"space-traveling/cmd/internal/trace"
	"space-traveling/logger"
)

// Recovery turns handler panics into a 500 and logs them with the request ID.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		logger.ErrorWithFields("panic recovered", logger.Fields{
			"path":       c.Request.URL.Path,
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"panic":      fmt.Sprint(recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	})
}
