package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

// RespondWithError writes an ErrorResponse with the given status.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "User is not authenticated"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An unexpected error occurred, please try again"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError is the body for field-level validation failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Invalid input"
	}
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: message,
		Fields:  fields,
	})
}

// StatusForCode maps an error code to the HTTP status used for it.
func StatusForCode(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case AuthUnauthorized, AuthInvalidCredentials, AuthTokenExpired, AuthTokenInvalid, AuthTokenRevoked:
		return http.StatusUnauthorized
	case AuthzForbidden, AuthzAdminOnly, AuthzOwnerOnly, AuthzRoleNotFound:
		return http.StatusForbidden
	case ResourceNotFound, ProductNotFound, OrderNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, ProductSlugExists, AuthEmailAlreadyExists, OrderAlreadyPaid, OrderAlreadyDelivered:
		return http.StatusConflict
	case InternalServerError, InternalDatabaseError, InternalConfigError:
		return http.StatusInternalServerError
	case InternalExternalAPI:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
