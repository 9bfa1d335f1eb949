package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"togetherwatch/internal/core/services"
	httphandlers "togetherwatch/internal/handlers/http"
	"togetherwatch/internal/infrastructure/gateway"
	"togetherwatch/internal/infrastructure/middleware"
	"togetherwatch/internal/infrastructure/monitoring"
	"togetherwatch/internal/infrastructure/repositories"
	"togetherwatch/pkg/config"
	"togetherwatch/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Ensure the uploads directory exists before accepting files
	if err := os.MkdirAll(cfg.Storage.UploadsDir, 0o755); err != nil {
		log.Fatalw("failed to create uploads directory", "dir", cfg.Storage.UploadsDir, "error", err)
	}

	// Initialize repository factory
	// Closed once during the shutdown sequence below.
	repoFactory, err := repositories.NewFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}

	userRepo := repoFactory.CreateUserRepository()
	roomRepo := repoFactory.CreateRoomRepository()
	messageRepo := repoFactory.CreateMessageRepository()
	videoRepo := repoFactory.CreateVideoRepository()
	presenceRegistry := repoFactory.CreatePresenceRegistry()

	// Initialize monitoring
	var collector *monitoring.PrometheusCollector
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector()
	}

	// The hub is the delivery sink the sync services broadcast through
	hub := gateway.NewHub(collector, log)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	roomService := services.NewRoomService(roomRepo, userRepo, messageRepo, videoRepo, log)
	videoService := services.NewVideoService(videoRepo, roomRepo, log)
	presenceService := services.NewPresenceService(presenceRegistry, hub, log)
	playbackService := services.NewPlaybackService(presenceRegistry, hub, log)
	chatService := services.NewChatService(presenceRegistry, messageRepo, hub, log)

	// Initialize the room session gateway
	wsGateway := gateway.NewGateway(hub, presenceService, playbackService, chatService, cfg, collector, log)

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(authService)
	roomHandler := httphandlers.NewRoomHandler(roomService, playbackService, presenceRegistry, authService)
	videoHandler := httphandlers.NewVideoHandler(videoService, authService, cfg, collector, log)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	authHandler.SetupRoutes(router)
	roomHandler.SetupRoutes(router)
	videoHandler.SetupRoutes(router)

	// Room session endpoint
	router.GET("/ws", gin.WrapF(wsGateway.HandleWebSocket))

	// Health check endpoint
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("repositories", repoFactory.HealthCheck, 2*time.Second)

	router.GET("/health", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":      status.Status,
			"timestamp":   status.Timestamp,
			"checks":      status.Checks,
			"uptime":      time.Since(startTime).String(),
			"connections": hub.ConnectionCount(),
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting TogetherWatch server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down TogetherWatch server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("TogetherWatch server stopped")
}
