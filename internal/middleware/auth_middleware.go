package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorResponse mirrors the API error envelope locally to avoid an import
// cycle with internal/api.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(authClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{authClient: authClient, logger: logger}
}

// VerifyToken verifies the Firebase ID token from the Authorization header.
// On success the user ID and the standard profile claims are placed in the
// Gin context for downstream handlers.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Error: "Unauthorized", Message: "Authorization header is required",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Error: "Unauthorized", Message: "Authorization header format must be 'Bearer {token}'",
			})
			return
		}

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			// Generic message to the client; detail stays server-side.
			m.logger.Warn("failed to verify Firebase ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Error: "Unauthorized", Message: "Invalid or expired authentication token",
			})
			return
		}

		c.Set("userID", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set("userDisplayName", name)
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			c.Set("userPhotoURL", picture)
		}

		c.Next()
	}
}
