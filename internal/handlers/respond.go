package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/middleware"
)

// respondError maps err to an error envelope under code. Storage causes are
// logged here and never reach the client.
func respondError(c *gin.Context, code string, err error) {
	if appErr, ok := apierrors.As(err); !ok || appErr.Kind == apierrors.KindStorage {
		slog.Error("request failed",
			slog.String("request_id", middleware.RequestID(c)),
			slog.String("route", c.FullPath()),
			slog.String("code", code),
			slog.Any("error", causeOf(err)),
		)
	}
	apierrors.Respond(c, code, err)
}

func causeOf(err error) error {
	if appErr, ok := apierrors.As(err); ok && appErr.Err != nil {
		return appErr.Err
	}
	return err
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, dto.Success(data))
}

func statusFor(found bool) int {
	if found {
		return http.StatusOK
	}
	return http.StatusCreated
}
