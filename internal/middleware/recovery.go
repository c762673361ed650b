package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/response"
)

// Recovery returns a middleware that recovers from panics and logs them with
// the authenticated user, if any. A response that has already started (an
// event stream, for example) is only aborted.
func Recovery(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Errorw("panic recovered",
				"error", rec,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"client_ip", c.ClientIP(),
				"user_id", UserID(c),
				"request_id", RequestID(c),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
		}()

		c.Next()
	}
}
