package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stampflow-backend-go/internal/api"
	"stampflow-backend-go/internal/config"
	"stampflow-backend-go/internal/core"
	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/middleware"
)

const (
	// Artificial delays for the placeholder generation/submission services.
	generationDelayPerImage = 500 * time.Millisecond
	submissionDelayPerStep  = 800 * time.Millisecond
)

func main() {
	// Best-effort .env load for local development; real deployments inject
	// environment variables directly.
	_ = godotenv.Load()

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load application configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if strings.ToLower(appConfig.GinMode) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Firebase Admin SDK: Firestore, Auth and the Storage bucket, built once
	// and injected everywhere.
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK initialized",
		zap.String("projectId", appConfig.FirebaseProjectID),
		zap.String("bucket", appConfig.StorageBucket))

	// Repositories.
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	stampRepo := db.NewFirestoreStampRepository(clients.Firestore)
	imageRepo := db.NewFirestoreImageRepository(clients.Firestore)
	presetRepo := db.NewFirestorePresetRepository(clients.Firestore)
	tokenTxRepo := db.NewFirestoreTokenTransactionRepository(clients.Firestore)
	objectStore, err := db.NewFirebaseObjectStore(clients.Bucket, appConfig.StorageBucket)
	if err != nil {
		zapLogger.Fatal("Failed to initialize object store", zap.Error(err))
	}

	// Services. Generation and submission are placeholder implementations
	// with artificial delays standing in for the real pipelines.
	generator := core.NewMockGenerator(generationDelayPerImage)
	submitter := core.NewMockSubmitter(submissionDelayPerStep)
	payments := core.NewStripePayments(appConfig.StripeWebhookSecret)

	userService := core.NewUserService(userRepo)
	tokenService := core.NewTokenService(userRepo, tokenTxRepo)
	presetService := core.NewPresetService(presetRepo)
	stampService := core.NewStampService(stampRepo, imageRepo, presetService, objectStore, generator, submitter, zapLogger)
	zapLogger.Info("Core services initialized")

	// Gin engine and global middleware.
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	authMW := middleware.NewAuthMiddleware(clients.Auth, zapLogger)
	api.SetupRoutes(
		router,
		zapLogger,
		authMW.VerifyToken(),
		userService,
		stampService,
		tokenService,
		presetService,
		payments,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully")
}
