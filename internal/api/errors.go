package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stampflow-backend-go/internal/core"
)

// Error taxonomy categories. The HTTP status encodes the category; the
// category string is repeated in the body for clients that cannot see the
// status line.
const (
	categoryUnauthorized       = "Unauthorized"
	categoryForbidden          = "Forbidden"
	categoryNotFound           = "NotFound"
	categoryBadRequest         = "BadRequest"
	categoryServiceUnavailable = "ServiceUnavailable"
	categoryInternalError      = "InternalError"
)

// mapServiceError translates service-layer errors into the taxonomy using
// typed checks. Unknown errors become a generic 500 and are logged
// server-side only.
func mapServiceError(c *gin.Context, err error) {
	var statusErr *core.InvalidStatusError

	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrStampNotFound),
		errors.Is(err, core.ErrPresetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: categoryNotFound, Message: err.Error()})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: categoryForbidden, Message: err.Error()})
	case errors.As(err, &statusErr),
		errors.Is(err, core.ErrInsufficientBalance),
		errors.Is(err, core.ErrInvalidSignature),
		errors.Is(err, core.ErrUnknownTokenPackage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: categoryBadRequest, Message: err.Error()})
	case errors.Is(err, core.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: categoryServiceUnavailable, Message: err.Error()})
	default:
		log.Printf("Internal Server Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   categoryInternalError,
			Message: "An unexpected internal server error occurred.",
		})
	}
}

// badRequest rejects a request that failed validation before reaching the
// service layer.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: categoryBadRequest, Message: message})
}

// callerID extracts the authenticated user ID placed in the context by the
// auth middleware.
func callerID(c *gin.Context) (string, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: categoryUnauthorized, Message: "User ID not found in context"})
		return "", false
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: categoryUnauthorized, Message: "Invalid user ID in context"})
		return "", false
	}
	return userID, true
}
