package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"notifyhub/database"
	"notifyhub/internal/cache"
	"notifyhub/internal/config"
	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
	"notifyhub/internal/microservices/http-api/service"
	"notifyhub/internal/microservices/websocket"
	"notifyhub/internal/providers"
	"notifyhub/internal/worker"
)

// Standalone queue worker: sweeps due queue entries and runs the retention
// cleaner without serving any HTTP traffic. Run it instead of the in-process
// worker (WORKER_ENABLED=false on the API servers) when delivery throughput
// needs to scale independently of the API.
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
		logger.Warn("redis unavailable, unread cache invalidation disabled", "error", err)
		unreadCache = nil
	} else {
		defer unreadCache.Close()
	}

	notificationRepo := repository.NewNotificationRepository(db)
	queueRepo := repository.NewNotificationQueueRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	preferenceRepo := repository.NewNotificationPreferenceRepository(db)
	templateRepo := repository.NewNotificationTemplateRepository(db)
	userRepo := repository.NewUserRepository(db)

	// This process holds no browser connections; the hub still accepts
	// websocket publishes so those notifications settle as delivered,
	// matching the fan-out contract the API server uses.
	hub := websocket.NewHub(logger)

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

	notificationSvc := service.NewNotificationService(
		notificationRepo, queueRepo, logRepo, preferenceRepo, templateRepo, userRepo,
		providerMap, unreadCache, cfg.QueueClaimTimeout, logger,
	)

	processor := worker.NewProcessor(queueRepo, notificationRepo, notificationSvc,
		cfg.WorkerRateLimit, cfg.QueueClaimTimeout, logger)
	cleaner := worker.NewCleaner(notificationRepo, cfg.RetentionHorizon(), logger)

	go cleaner.Run(ctx, cfg.CleanupInterval)

	logger.Info("queue worker started",
		"interval", cfg.WorkerInterval, "batch_size", cfg.QueueBatchSize, "rate_limit", cfg.WorkerRateLimit)
	processor.Run(ctx, cfg.WorkerInterval, cfg.QueueBatchSize)
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
