package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
)

const MsgOriginNotAllowed = "No permitido por políticas de CORS"

// CORS admits browser requests from allowedOrigins only. Requests without an
// Origin header (curl, mobile clients) pass through untouched. Rejected
// origins get the error envelope instead of a bare 403.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	isAllowed := func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}

	handler := cors.New(cors.Config{
		AllowOriginFunc: isAllowed,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Content-Type", "Authorization", "user-id"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && !isAllowed(origin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Failure(apierrors.ErrCodeCORS, MsgOriginNotAllowed))
			return
		}
		handler(c)
	}
}
