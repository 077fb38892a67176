// Command sync runs a single statistics sync from the command line and
// prints the run summary as JSON. It is the CLI counterpart of
// POST /api/v1/sync for operators without HTTP access.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/config"
	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/service"
	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
	"github.com/shortsboard/shorts-analytics/internal/service/youtube"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sync: %v\n", err)
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

	if err := cfg.Validate(); err != nil {
		return err
	}

	// SIGINT cancels in-flight API calls; the videos already written stay.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close(pool)

	ytClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		return fmt.Errorf("initialize YouTube client: %w", err)
	}
	ytClient.WithLogger(logger.Log)

	orchestrator := statsync.NewOrchestrator(
		cfg.Sync.ChannelID,
		ytClient,
		repository.NewVideoRepository(pool),
		repository.NewStatsHistoryRepository(pool),
		logger.Log,
	)

	if cfg.RabbitMQ.Host != "" {
		publisher, err := service.NewSyncRunPublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Failed to connect to RabbitMQ, sync run will not be published", zap.Error(err))
		} else {
			defer func() { _ = publisher.Close() }()
			orchestrator.SetPublisher(publisher)
		}
	}

	return runOnce(ctx, orchestrator, os.Stdout)
}

type runner interface {
	Run(ctx context.Context) (*statsync.Summary, error)
}

// runOnce executes one sync and writes the indented summary to out.
func runOnce(ctx context.Context, r runner, out io.Writer) error {
	summary, err := r.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync run: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if summary.Errors > 0 {
		logger.L().Warn("Sync finished with per-video errors",
			zap.Int("errors", summary.Errors),
			zap.Int("videosProcessed", summary.VideosProcessed),
		)
	}
	return nil
}
