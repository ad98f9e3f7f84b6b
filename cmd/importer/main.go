package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"space-traveling/cmd/importer/quota"
	"space-traveling/cmd/importer/renderer"
	"space-traveling/cmd/importer/services"
	"space-traveling/cmd/importer/summarizer"
	"space-traveling/cmd/internal/eventbus"
	"space-traveling/cmd/internal/httpclient"
	"space-traveling/cmd/internal/notify"
	"space-traveling/config"
	"space-traveling/db"
	"space-traveling/logger"
	"space-traveling/repositories"
)

// importer fills the MongoDB document store from the configured feeds,
// once or on importer.schedule.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(cctx)
	}()

	httpClient := httpclient.New(httpclient.Config{Timeout: 30 * time.Second})
	var opts []services.Option
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		s, err := summarizer.NewGeminiSummarizer(ctx, apiKey, cfg.Importer.LLM)
		if err != nil {
			logger.Log.Warnf("summaries disabled: %v", err)
		} else {
			opts = append(opts, services.WithSummarizer(s, quota.NewSummaryQuotaLimiter(cfg.Importer.SummaryQuota)))
		}
	}

	svc := services.NewImportService(
		repositories.NewDocumentRepository(db.Database()),
		httpClient,
		services.HTTPPageFetcher(httpClient, renderer.New(renderer.Options{}).Render),
		cfg.CMS.DocumentType,
		cfg.Importer.ItemLimit,
		opts...,
	)

	notifier := notify.Notifier(notify.LogNotifier{})
	if brokers := eventbus.BrokersFromEnv(); brokers != "" {
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			logger.Log.Warnf("kafka unavailable: %v", err)
		} else {
			defer bus.Close()
			notifier = notify.Multi{notifier, notify.NewEventBusNotifier(bus, cfg.Notifications.Topic)}
		}
	}

	job := func() {
		report, err := svc.Run(ctx, cfg.Importer.Feeds)
		level, msg := notify.LevelInfo, fmt.Sprintf("%d posts importados", report.Imported)
		if err != nil || report.Failed > 0 {
			level = notify.LevelError
			msg = fmt.Sprintf("%s, %d falharam", msg, report.Failed)
		}
		if report.Imported == 0 && level == notify.LevelInfo {
			return
		}
		if nerr := notifier.Notify(ctx, notify.New(level, msg)); nerr != nil {
			logger.Log.Warnf("notify failed: %v", nerr)
		}
	}

	if cfg.Importer.Schedule == "" {
		job()
		return
	}

	c, err := newScheduler(cfg.Importer.Schedule, job)
	if err != nil {
		logger.Log.Errorf("invalid importer schedule %q: %v", cfg.Importer.Schedule, err)
		os.Exit(1)
	}
	logger.InfoWithFields("importer scheduled", logger.Fields{"schedule": cfg.Importer.Schedule, "feeds": len(cfg.Importer.Feeds)})
	c.Start()

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, waiting for running import...")
	<-c.Stop().Done()
	logger.Log.Info("importer stopped")
}
