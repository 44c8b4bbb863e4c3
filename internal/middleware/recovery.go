package middleware

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
)

// Recovery turns a panic into a 500 envelope carrying the panic text
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		message := fmt.Sprint(recovered)
		if err, ok := recovered.(error); ok {
			message = err.Error()
		}
		slog.Error("panic recovered",
			slog.String("path", c.Request.URL.Path),
			slog.String(requestIDKey, RequestID(c)),
			slog.String("panic", message),
		)
		apierrors.InternalError(c, message)
	})
}
