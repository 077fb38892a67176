package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/config"
	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/handler"
	"github.com/shortsboard/shorts-analytics/internal/metrics"
	"github.com/shortsboard/shorts-analytics/internal/service"
	"github.com/shortsboard/shorts-analytics/internal/service/assistant"
	"github.com/shortsboard/shorts-analytics/internal/service/llm"
	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
	"github.com/shortsboard/shorts-analytics/internal/service/youtube"
	"github.com/shortsboard/shorts-analytics/internal/validation"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Log

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close(pool)

	log.Info("Database connection established",
		zap.Int32("maxConns", pool.Config().MaxConns),
	)

	videoRepo := repository.NewVideoRepository(pool)
	historyRepo := repository.NewStatsHistoryRepository(pool)
	embeddingRepo := repository.NewScriptEmbeddingRepository(pool)

	m := metrics.New()

	ytClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		return fmt.Errorf("initialize YouTube client: %w", err)
	}
	ytClient.WithLogger(log).WithQuotaObserver(m.RecordQuota)

	orchestrator := statsync.NewOrchestrator(cfg.Sync.ChannelID, ytClient, videoRepo, historyRepo, log)
	orchestrator.SetRecorder(m)

	health := &readiness{database: pool}

	// Redis channel-name cache (optional)
	if cfg.Redis.URL != "" {
		redisClient, err := newRedisClient(cfg.Redis.URL)
		if err != nil {
			log.Warn("Failed to configure Redis, channel names will not be cached", zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
			cache := service.NewChannelNameCache(redisClient, ytClient, cfg.Redis.ChannelNameTTL)
			orchestrator.SetChannelNames(cache)
			health.cache = cache
			log.Info("Channel name cache enabled", zap.Duration("ttl", cfg.Redis.ChannelNameTTL))
		}
	}

	// RabbitMQ run events (optional)
	if cfg.RabbitMQ.Host != "" {
		publisher, err := service.NewSyncRunPublisher(&cfg.RabbitMQ)
		if err != nil {
			log.Warn("Failed to connect to RabbitMQ, sync runs will not be published", zap.Error(err))
		} else {
			defer func() { _ = publisher.Close() }()
			orchestrator.SetPublisher(publisher)
			health.publisher = publisher
			log.Info("Sync run events enabled", zap.String("exchange", cfg.RabbitMQ.Exchange))
		}
	}

	// Chatbot (optional)
	var chat assistant.ChatCompleter
	if cfg.LLM.APIKey != "" {
		chat = llm.NewClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			APIKey:  cfg.LLM.APIKey,
			Timeout: cfg.LLM.Timeout,
		})
		log.Info("Chatbot enabled", zap.String("model", cfg.LLM.Model))
	} else {
		log.Info("LLM API key not configured (APP_LLM_APIKEY), chatbot is disabled")
	}

	embeddingService := service.NewEmbeddingService(embeddingRepo, videoRepo, validation.New(0))
	assistantService := assistant.NewService(cfg.Sync.ChannelID, videoRepo, historyRepo, embeddingRepo, chat)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Handlers{
		Health:     health.handler(),
		Sync:       handler.NewSyncHandler(orchestrator),
		Videos:     handler.NewVideoHandler(cfg.Sync.ChannelID, videoRepo, historyRepo, embeddingService),
		Embeddings: handler.NewEmbeddingHandler(embeddingService),
		Assistant:  handler.NewAssistantHandler(assistantService),
		Metrics:    m.Handler(),

		AllowOrigins: cfg.Server.AllowOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("channelId", cfg.Sync.ChannelID),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			_ = server.Close()
			return err
		}

		log.Info("Server stopped gracefully")
		return nil
	}
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// readiness collects the optional dependencies. Unset fields stay nil
// interfaces so the health handler skips them.
type readiness struct {
	database  *pgxpool.Pool
	cache     *service.ChannelNameCache
	publisher *service.SyncRunPublisher
}

func (r *readiness) handler() *handler.HealthHandler {
	var (
		cache     handler.Pinger
		publisher handler.HealthChecker
	)
	if r.cache != nil {
		cache = r.cache
	}
	if r.publisher != nil {
		publisher = r.publisher
	}
	return handler.NewHealthHandler(r.database, cache, publisher)
}
