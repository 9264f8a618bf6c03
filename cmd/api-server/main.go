package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"notifyhub/database"
	"notifyhub/internal/cache"
	"notifyhub/internal/config"
	"notifyhub/internal/microservices/http-api/handler"
	"notifyhub/internal/microservices/http-api/middleware"
	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
	"notifyhub/internal/microservices/http-api/service"
	"notifyhub/internal/microservices/websocket"
	"notifyhub/internal/providers"
	"notifyhub/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	unreadCache, err := cache.NewUnreadCache(cfg.RedisAddr, cfg.RedisPassword, cfg.UnreadCacheTTL, logger)
	if err != nil {
		// the cache is an optimization, not a dependency
		logger.Warn("redis unavailable, unread counts served from the database", "error", err)
		unreadCache = nil
	} else {
		defer unreadCache.Close()
	}

	// Repositories
	notificationRepo := repository.NewNotificationRepository(db)
	queueRepo := repository.NewNotificationQueueRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	preferenceRepo := repository.NewNotificationPreferenceRepository(db)
	templateRepo := repository.NewNotificationTemplateRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Real-time gateway
	hub := websocket.NewHub(logger)

	// Provider adapters; a channel without a configured provider fails
	// dispatch and burns through the retry budget, so only register real ones
	providerMap := map[models.NotificationChannel]providers.Provider{
		models.ChannelWebSocket: providers.NewWebSocketProvider(hub),
		models.ChannelEmail:     providers.NewEmailProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, logger),
	}
	if cfg.FirebaseCredentialsFile != "" {
		pushProvider, err := providers.NewPushProvider(ctx, cfg.FirebaseCredentialsFile, logger)
		if err != nil {
			logger.Warn("push provider unavailable", "error", err)
		} else {
			providerMap[models.ChannelPush] = pushProvider
		}
	}
	if cfg.SMSGatewayURL != "" {
		providerMap[models.ChannelSMS] = providers.NewSMSProvider(cfg.SMSGatewayURL, cfg.SMSGatewayKey, cfg.SMSSender, logger)
	}

	// Services
	notificationSvc := service.NewNotificationService(
		notificationRepo, queueRepo, logRepo, preferenceRepo, templateRepo, userRepo,
		providerMap, unreadCache, cfg.QueueClaimTimeout, logger,
	)
	authSvc := service.NewAuthService(userRepo, cfg)
	preferenceSvc := service.NewPreferenceService(preferenceRepo)
	templateSvc := service.NewTemplateService(templateRepo)

	// In-process queue processor and retention cleaner
	if cfg.WorkerEnabled {
		processor := worker.NewProcessor(queueRepo, notificationRepo, notificationSvc,
			cfg.WorkerRateLimit, cfg.QueueClaimTimeout, logger)
		go processor.Run(ctx, cfg.WorkerInterval, cfg.QueueBatchSize)

		cleaner := worker.NewCleaner(notificationRepo, cfg.RetentionHorizon(), logger)
		go cleaner.Run(ctx, cfg.CleanupInterval)
	}

	// HTTP surface
	if cfg.GoEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler := handler.NewAuthHandler(authSvc)
	authHandler.RegisterRoutes(api.Group("/auth"))

	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(authSvc))
	authHandler.RegisterProtectedRoutes(authorized.Group("/users"))
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(
		authorized.Group("/notifications"), middleware.RequireOwner())
	handler.NewPreferenceHandler(preferenceSvc).RegisterRoutes(authorized.Group("/preferences"))
	handler.NewTemplateHandler(templateSvc).RegisterRoutes(
		authorized.Group("/templates", middleware.RequireOwner()))

	r.GET("/ws", websocket.WSHandler(hub, authSvc, notificationSvc, logger))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
