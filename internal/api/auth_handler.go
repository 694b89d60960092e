package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stampflow-backend-go/internal/core"
)

// AuthHandler handles session-related API endpoints.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// Session handles GET /auth/session. The auth middleware has already
// verified the Firebase ID token; this endpoint makes sure a backend profile
// exists for the caller, creating it on the first session check and
// refreshing profile fields on later ones.
func (h *AuthHandler) Session(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	email, _ := c.Get("userEmail")
	displayName, _ := c.Get("userDisplayName")
	photoURL, _ := c.Get("userPhotoURL")

	emailStr, _ := email.(string)
	displayNameStr, _ := displayName.(string)
	photoURLStr, _ := photoURL.(string)

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, emailStr, displayNameStr, photoURLStr)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}
