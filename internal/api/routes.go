package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stampflow-backend-go/internal/core"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router before this is called, in main.
// authMW is the token-verification middleware; it is injected rather than
// constructed here so tests can substitute a stub.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW gin.HandlerFunc,
	userService core.UserService,
	stampService core.StampService,
	tokenService core.TokenService,
	presetService core.PresetService,
	payments core.PaymentProvider,
) {
	authHandler := NewAuthHandler(userService)
	imageHandler := NewImageHandler(stampService)
	stampHandler := NewStampHandler(stampService)
	presetHandler := NewPresetHandler(presetService)
	tokenHandler := NewTokenHandler(tokenService, payments, logger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/auth/session", authMW, authHandler.Session)

		apiV1.POST("/images/upload", authMW, imageHandler.Upload)

		stamps := apiV1.Group("/stamps", authMW)
		{
			stamps.POST("/set-preset", stampHandler.SetPreset)
			stamps.POST("/generate", stampHandler.Generate)
			stamps.POST("/submit", stampHandler.Submit)
			stamps.POST("/retry", stampHandler.Retry)
			stamps.GET("/:id/status", stampHandler.Status)
			stamps.GET("/:id/preview", stampHandler.Preview)
		}

		apiV1.GET("/presets/list", authMW, presetHandler.List)

		tokens := apiV1.Group("/tokens")
		{
			tokens.GET("/balance", authMW, tokenHandler.Balance)
			tokens.GET("/history", authMW, tokenHandler.History)
			tokens.POST("/consume", authMW, tokenHandler.Consume)
			tokens.POST("/checkout-session", authMW, tokenHandler.CreateCheckoutSession)
			// Stripe authenticates webhook deliveries by signature, so no
			// auth middleware here.
			tokens.POST("/webhook/stripe", tokenHandler.StripeWebhook)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
