package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/config"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/handler"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/middleware"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/pkg/logger"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize document storage
	docsSvc, err := service.NewDocumentService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize document storage", "error", err)
		os.Exit(1)
	}
	if err := docsSvc.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure document bucket", "error", err)
		os.Exit(1)
	}

	// Initialize the entity store and the services around it
	store := service.NewStore()
	workflow := service.NewWorkflow(store)
	notifyCenter := service.NewNotificationCenter(service.NotifyThresholds{
		Window: cfg.Notify.WindowDays,
		High:   cfg.Notify.HighDays,
		Medium: cfg.Notify.MediumDays,
	})
	exportSvc := service.NewExportService(store)
	uistateSvc := service.NewUIStateService(store)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	agreementHandler := handler.NewAgreementHandler(workflow, store, docsSvc)
	addendumHandler := handler.NewAddendumHandler(workflow, store, docsSvc)
	notificationHandler := handler.NewNotificationHandler(store, notifyCenter)
	exportHandler := handler.NewExportHandler(exportSvc)
	uistateHandler := handler.NewUIStateHandler(uistateSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Add custom middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/auth/role", authHandler.SwitchRole)

		protected.GET("/agreements", agreementHandler.List)
		protected.POST("/agreements", agreementHandler.Create)
		protected.GET("/agreements/:id", agreementHandler.Get)
		protected.PATCH("/agreements/:id", agreementHandler.Update)
		protected.DELETE("/agreements/:id", agreementHandler.Delete)
		protected.POST("/agreements/:id/advance", agreementHandler.Advance)
		protected.POST("/agreements/:id/reject", agreementHandler.Reject)
		protected.PUT("/agreements/:id/priority", agreementHandler.SetPriority)
		protected.POST("/agreements/:id/documents/:slot", agreementHandler.UploadDocument)
		protected.GET("/agreements/:id/documents/:slot/url", agreementHandler.DocumentURL)

		protected.GET("/addendums", addendumHandler.List)
		protected.POST("/addendums", addendumHandler.Create)
		protected.GET("/addendums/:id", addendumHandler.Get)
		protected.PATCH("/addendums/:id", addendumHandler.Update)
		protected.DELETE("/addendums/:id", addendumHandler.Delete)
		protected.PUT("/addendums/:id/status", addendumHandler.SetStatus)
		protected.POST("/addendums/:id/documents/:slot", addendumHandler.UploadDocument)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/refresh", notificationHandler.Refresh)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		protected.DELETE("/notifications", notificationHandler.Clear)
		protected.DELETE("/notifications/:id", notificationHandler.Remove)

		protected.GET("/export/agreements.xlsx", exportHandler.Download)

		protected.GET("/ui/state", uistateHandler.Get)
		protected.PUT("/ui/state/tab", uistateHandler.SetTab)
		protected.POST("/ui/state/modal", uistateHandler.OpenModal)
		protected.DELETE("/ui/state/modal", uistateHandler.CloseModal)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers for the dashboard frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
