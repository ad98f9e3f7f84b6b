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
	"github.com/rs/cors"

	"space-traveling/cmd/internal/eventbus"
	"space-traveling/cmd/internal/httpclient"
	"space-traveling/cmd/internal/notify"
	"space-traveling/cmd/web/clients/cmsclient"
	"space-traveling/cmd/web/router"
	"space-traveling/cmd/web/services"
	"space-traveling/config"
	"space-traveling/db"
	"space-traveling/logger"
	"space-traveling/repositories"
)

// @title           spacetraveling API
// @version         1.0
// @description     Blog posts served from a headless CMS
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newContentStore(ctx, cfg)
	if err != nil {
		logger.Log.Errorf("failed to initialize content store: %v", err)
		os.Exit(1)
	}
	defer closeStore()

	notifier, closeNotifier := newNotifier(ctx, cfg)
	defer closeNotifier()

	engine, err := router.New(router.Deps{
		Store:          store,
		DocumentType:   cfg.CMS.DocumentType,
		PageSize:       cfg.CMS.PageSize,
		ResolveTimeout: cfg.Server.ResolveTimeout,
		Location:       cfg.Location(),
		Notifier:       notifier,
	})
	if err != nil {
		logger.Log.Errorf("failed to build router: %v", err)
		os.Exit(1)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}).Handler(engine)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("starting web server", logger.Fields{"addr": cfg.Server.Addr, "provider": cfg.CMS.Provider})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("web server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("web server shutdown: %v", err)
	}
	logger.Log.Info("web server stopped")
}

func newContentStore(ctx context.Context, cfg config.AppConfig) (services.ContentStore, func(), error) {
	switch cfg.CMS.Provider {
	case config.ProviderPrismic:
		client, err := cmsclient.New(cfg.CMS.Endpoint, cfg.CMS.AccessToken, httpclient.New(httpclient.Config{Timeout: cfg.CMS.Timeout}))
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	case config.ProviderMongo:
		if err := db.Init(ctx, cfg.Mongo); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Close(cctx)
		}
		repo := repositories.NewDocumentRepository(db.Database(),
			repositories.WithCursorSecret([]byte(cfg.Mongo.CursorSecret)))
		return repo, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown cms provider %q", cfg.CMS.Provider)
	}
}

// newNotifier always logs; it also publishes to Kafka when brokers are configured.
func newNotifier(ctx context.Context, cfg config.AppConfig) (notify.Notifier, func()) {
	brokers := eventbus.BrokersFromEnv()
	if brokers == "" {
		return notify.LogNotifier{}, func() {}
	}
	if err := eventbus.EnsureTopic(ctx, brokers, cfg.Notifications.Topic, 1); err != nil {
		logger.Log.Warnf("failed to ensure notifications topic: %v", err)
	}
	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Warnf("kafka unavailable, notifications are only logged: %v", err)
		return notify.LogNotifier{}, func() {}
	}
	return notify.Multi{notify.LogNotifier{}, notify.NewEventBusNotifier(bus, cfg.Notifications.Topic)}, bus.Close
}
