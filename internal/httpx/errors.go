package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppError is a business-rule violation carrying its HTTP status. The
// boundary translator turns any error into the uniform envelope
// {statusCode, message, error} before it reaches the client.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func BadRequest(msg string) *AppError   { return &AppError{Status: http.StatusBadRequest, Message: msg} }
func Unauthorized(msg string) *AppError { return &AppError{Status: http.StatusUnauthorized, Message: msg} }
func Forbidden(msg string) *AppError    { return &AppError{Status: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *AppError     { return &AppError{Status: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *AppError     { return &AppError{Status: http.StatusConflict, Message: msg} }

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	ErrorName  string `json:"error"`
}

// Data wraps a success payload in {data: ...}.
func Data(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"data": payload})
}

// Error writes err as the uniform envelope. Unexpected errors are logged
// with full detail and surfaced only as a generic internal message.
func Error(c *gin.Context, log *zap.Logger, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
			StatusCode: appErr.Status,
			Message:    appErr.Message,
			ErrorName:  errorName(appErr.Status),
		})
		return
	}

	if log != nil {
		log.Error("unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
		ErrorName:  errorName(http.StatusInternalServerError),
	})
}

func errorName(status int) string {
	if name := http.StatusText(status); name != "" {
		return name
	}
	return "Error"
}
