package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/portvakt/portvakt/internal/actuator"
	"github.com/portvakt/portvakt/internal/allowlist"
	"github.com/portvakt/portvakt/internal/api/handlers"
	"github.com/portvakt/portvakt/internal/api/middleware"
	"github.com/portvakt/portvakt/internal/config"
	"github.com/portvakt/portvakt/internal/engine"
	"github.com/portvakt/portvakt/internal/ledger"
	"github.com/portvakt/portvakt/internal/logger"
	"github.com/portvakt/portvakt/internal/metrics"
	"github.com/portvakt/portvakt/internal/models"
	"github.com/portvakt/portvakt/internal/services"
)

// Register wires up all routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	store := allowlist.NewStore(cfg.TrustedNumbersPath)
	callLog := ledger.New(cfg.CallLogPath)
	gate := actuator.NewClient(cfg.HomeAssistantURL, cfg.HomeAssistantWebhookID, cfg.WebhookTimeout)
	notificationService := services.NewNotificationService(db, cfg.NotifyURLs)
	decisionEngine := engine.New(store, gate, callLog, notificationService)

	authService := services.NewAuthService(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)

	incomingCallHandler := handlers.NewIncomingCallHandler(decisionEngine)
	trustedNumbersHandler := handlers.NewTrustedNumbersHandler(store)
	attemptsHandler := handlers.NewAttemptsHandler(callLog)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Provider-facing webhook. Unauthenticated and unversioned: the path
	// is configured at 46elks and must never answer with anything but 200.
	router.POST("/elks/incoming-call", incomingCallHandler.Handle)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.Auth(authService))
	{
		protected.GET("/trusted-numbers", trustedNumbersHandler.List)
		protected.POST("/trusted-numbers", trustedNumbersHandler.Add)
		protected.DELETE("/trusted-numbers", trustedNumbersHandler.Remove)

		protected.GET("/attempts", attemptsHandler.List)
		protected.GET("/attempts/stats", attemptsHandler.Stats)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	// Daily summary of gate activity for the admins.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 8 * * *", func() {
		stats, err := callLog.Aggregate(1000)
		if err != nil {
			logger.Log().WithError(err).Error("Failed to aggregate call attempts for daily summary")
			return
		}
		notificationService.Notify(models.NotificationTypeInfo, "Daily gate summary",
			fmt.Sprintf("Calls: %d total, %d opened the gate, %d denied", stats.Total, stats.Successful, stats.Denied))
	}); err != nil {
		return fmt.Errorf("schedule daily summary: %w", err)
	}
	scheduler.Start()

	return nil
}
