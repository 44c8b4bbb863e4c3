package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/dto"
)

// Error codes carried in the envelope's error field
const (
	ErrCodeUser     = "USER_ERROR"
	ErrCodeTasks    = "TASKS_ERROR"
	ErrCodeTask     = "TASK_ERROR"
	ErrCodeToken    = "TOKEN_ERROR"
	ErrCodeCORS     = "CORS_ERROR"
	ErrCodeRate     = "RATE_LIMIT_ERROR"
	ErrCodeInternal = "Error"
	ErrCodeNoRoute  = "Ruta no encontrada"
)

// Generic user-facing messages
const (
	MsgGeneric     = "Ha ocurrido un error"
	MsgInvalidBody = "Cuerpo de la solicitud inválido"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindAuth       Kind = "auth"
)

// AppError is the error type shared by repositories, services and handlers.
// Message is safe to show to API clients; Err is the underlying cause and is
// only logged.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates an error for malformed or missing caller input
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NotFound creates an error for a missing entity
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Storage wraps a persistence failure behind a generic message
func Storage(message string, cause error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: cause}
}

// Auth creates an error for a missing or invalid bearer credential
func Auth(message string, cause error) *AppError {
	return &AppError{Kind: KindAuth, Message: message, Err: cause}
}

// As returns the outermost AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether the outermost AppError in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// StatusFor maps an error to its HTTP status. Every domain failure is a 400,
// including not-found, to keep the published contract.
func StatusFor(err error) int {
	if IsKind(err, KindAuth) {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

// MessageFor returns the client-facing message for err.
func MessageFor(err error) string {
	if appErr, ok := As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return MsgGeneric
}

// RespondWithError sends an error envelope
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.Failure(code, message))
}

// Respond sends the envelope matching err under the given error code
func Respond(c *gin.Context, code string, err error) {
	RespondWithError(c, StatusFor(err), code, MessageFor(err))
}

// Unauthorized sends a 401 TOKEN_ERROR response and aborts the chain
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Failure(ErrCodeToken, message))
}

// RouteNotFound sends the 404 envelope for unmatched routes
func RouteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.Envelope{Success: false, Error: ErrCodeNoRoute})
}

// InternalError sends a 500 response carrying the failure text
func InternalError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Failure(ErrCodeInternal, message))
}
