package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/overlay"
)

// Recovery 恢复中间件，panic 记录到日志后返回 500
func Recovery(logger overlay.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered", map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  fmt.Sprint(recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":      http.StatusInternalServerError,
			"message":   "internal server error",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
}
