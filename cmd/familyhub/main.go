package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unrolled/render"

	"github.com/vladislavprovich/familyhub/internal/handler"
	"github.com/vladislavprovich/familyhub/internal/service"
	"github.com/vladislavprovich/familyhub/internal/worker"
	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
	applogger "github.com/vladislavprovich/familyhub/pkg/logger"
)

func main() {
	ctx := context.Background()
	cfg := initConfig(ctx)
	logger, err := applogger.New(ctx, cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}

	dbClient := initDBClient(ctx, logger.Logger, cfg)
	store := initCache(ctx, logger.Logger, cfg)
	notifier := initNotifier(ctx, logger.Logger, store, cfg)
	srv := initService(ctx, logger.Logger, dbClient, store, notifier)

	rend := render.New()
	serviceHandler := handler.NewServiceHandler(srv, logger.Logger, &cfg.Server, rend)
	router := handler.NewRouter(serviceHandler, logger.Logger, &cfg.Server)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Server start. Listening on port", slog.Any("port", cfg.Server.Port))
		if err = httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("could not listen on port %s: %s", cfg.Server.Port, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.InfoContext(ctx, "Server shutdown error", slog.Any("error", err))
	}

	if notifier != nil {
		if err = notifier.Stop(shutdownCtx); err != nil {
			logger.InfoContext(ctx, "Notifier shutdown error", slog.Any("error", err))
		}
	}

	logger.InfoContext(ctx, "Server gracefully shutdown")
}

func initConfig(ctx context.Context) *Config {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		log.Fatalf("config load error %s", err)
	}

	return cfg
}

func initDBClient(ctx context.Context, logger *slog.Logger, cfg *Config) *familydb.BasicClient {
	logger.InfoContext(ctx, "initializing familydb client")
	httpClient := &http.Client{
		Timeout: cfg.Server.HTTPClientTimeout,
	}

	return familydb.NewBasicClient(httpClient, &cfg.Client, logger)
}

func initCache(ctx context.Context, logger *slog.Logger, cfg *Config) *cache.Memory {
	logger.InfoContext(ctx, "initializing cache",
		slog.Int("capacity", cfg.Cache.Capacity),
		slog.Duration("default_ttl", cfg.Cache.DefaultTTL),
	)

	return cache.NewMemory(cfg.Cache)
}

func initNotifier(ctx context.Context, logger *slog.Logger, store cache.Service, cfg *Config) *worker.Notifier {
	if !cfg.Notifier.Enabled {
		logger.InfoContext(ctx, "notifier disabled")
		return nil
	}

	logger.InfoContext(ctx, "initializing notifier",
		slog.String("gateway_url", cfg.Notifier.GatewayURL),
		slog.Int("max_concurrency", cfg.Notifier.MaxConcurrency),
	)

	sender := worker.NewGatewaySender(
		&http.Client{Timeout: cfg.Notifier.RequestTimeout},
		cfg.Notifier.GatewayURL,
		logger,
	)

	notifier := worker.NewNotifier(logger, sender, store, cfg.Notifier)
	if err := notifier.Start(ctx); err != nil {
		log.Fatalf("notifier start error %s", err)
	}

	return notifier
}

func initService(
	ctx context.Context,
	logger *slog.Logger,
	dbClient familydb.Client,
	store cache.Service,
	notifier *worker.Notifier,
) *service.Service {
	logger.InfoContext(ctx, "initializing service")

	// A nil *Notifier must stay nil inside the interface value.
	if notifier == nil {
		return service.NewFamilyService(ctx, logger, dbClient, store, nil)
	}
	return service.NewFamilyService(ctx, logger, dbClient, store, notifier)
}
