package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

// Envelope is the uniform response shape. Result is false on any failure;
// Code mirrors the HTTP status for clients that cannot read it.
type Envelope struct {
	Result  bool        `json:"result"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Result: true, Message: "ok", Code: status, Data: data})
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	c.AbortWithStatusJSON(status, Envelope{Result: false, Message: err.Error(), Code: status})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Result: false, Message: message, Code: status})
}

// statusFor maps the service failure taxonomy onto HTTP statuses. Kinds are
// matched by identity, never by message text.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
