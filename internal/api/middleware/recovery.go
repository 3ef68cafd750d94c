package middleware

import (
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"curator/internal/logger"

	"github.com/gin-gonic/gin"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// broken client connections are not worth a stack trace
		if ne, ok := recovered.(*net.OpError); ok {
			if se, ok := ne.Err.(*os.SyscallError); ok {
				msg := strings.ToLower(se.Error())
				if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
					c.Abort()
					return
				}
			}
		}

		if gin.IsDebugging() {
			httpRequest, _ := httputil.DumpRequest(c.Request, false)
			log.Error("panic recovered:\n%s\n%s\n%s", string(httpRequest), recovered, string(debug.Stack()))
		} else {
			log.Error("panic recovered: %s", recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
		})
	})
}
