package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/metrics"
	"github.com/yukikurage/user-task-api/internal/services"
)

const (
	MsgUserCreated  = "Usuario Creado"
	MsgUserFound    = "Usuario encontrado"
	MsgUserNotFound = "Usuario no encontrado"
	MsgEmailMissing = "Correo electrónico no encontrado, favor verificar"
)

// UserHandler serves the user endpoints
type UserHandler struct {
	userService  *services.UserService
	tokenService *services.TokenService
	metrics      metrics.Recorder
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, tokenService *services.TokenService, recorder metrics.Recorder) *UserHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &UserHandler{
		userService:  userService,
		tokenService: tokenService,
		metrics:      recorder,
	}
}

// FindOrCreate resolves the user for an email, registering it on first sight,
// and returns it with a fresh bearer token.
// 200 for an existing user, 201 for a new one.
func (h *UserHandler) FindOrCreate(c *gin.Context) {
	var req dto.FindOrCreateUserRequest
	// An empty body is an empty request; the email check reports it
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeUser, apierrors.MsgInvalidBody)
		return
	}

	result, err := h.userService.FindOrCreateUser(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, apierrors.ErrCodeUser, err)
		return
	}

	token, err := h.tokenService.Issue(result.User)
	if err != nil {
		respondError(c, apierrors.ErrCodeUser, err)
		return
	}

	message := ""
	if !result.Exists {
		message = MsgUserCreated
		h.metrics.RecordUserCreated()
	}

	respondOK(c, statusFor(result.Exists), dto.UserEnvelopeData{
		User:    h.userService.FormatUserResponse(result.User, result.Exists, token),
		Message: message,
	})
}

// Check reports whether an email is registered.
// 200 when it is, 201 when it is not.
func (h *UserHandler) Check(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.ErrCodeUser, MsgEmailMissing)
		return
	}

	exists, err := h.userService.CheckUser(c.Request.Context(), email)
	if err != nil {
		respondError(c, apierrors.ErrCodeUser, err)
		return
	}

	message := MsgUserNotFound
	if exists {
		message = MsgUserFound
	}
	respondOK(c, statusFor(exists), dto.CheckUserData{Exists: exists, Message: message})
}
