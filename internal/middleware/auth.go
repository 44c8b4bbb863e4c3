package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
)

const (
	MsgMissingHeader = "Header de autorización no presente"
	MsgBadScheme     = "Formato de autorización inválido. Use: Bearer <token>"
	MsgMissingToken  = "Token no proporcionado"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) error
}

// RequireBearer rejects requests that do not carry a valid bearer token
func RequireBearer(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, MsgMissingHeader)
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			apierrors.Unauthorized(c, MsgBadScheme)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			apierrors.Unauthorized(c, MsgMissingToken)
			return
		}

		if err := verifier.Verify(token); err != nil {
			apierrors.Unauthorized(c, apierrors.MessageFor(err))
			return
		}

		c.Next()
	}
}
