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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lunalog/internal/cache"
	"lunalog/internal/catalog"
	"lunalog/internal/config"
	"lunalog/internal/scoring"
	"lunalog/internal/service"
	"lunalog/internal/transport/rest"
	"lunalog/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	questions, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	engine, err := scoring.NewEngineFromCatalog(questions)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("questions", questions.Len()), zap.String("path", cfg.CatalogPath))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(reg)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	// Initialize services
	storeClient := service.NewStoreClient(cfg, metrics, logger)
	submissionSvc := service.NewSubmissionService(engine, storeClient, storeClient, metrics, logger)
	entrySvc := service.NewEntryService(storeClient, metrics, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	submissionSvc.SetBroadcaster(wsHub)

	if cfg.DedupEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, submissions proceed without the dedup guard until it recovers",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		}
		submissionSvc.SetSubmissionCache(cache.NewSubmissionCache(rdb, cfg.PendingClaimTTL(), cfg.SubmissionTTL))
	} else {
		logger.Info("submission dedup disabled (REDIS_ADDR not set)")
	}

	// Create router with container
	router := rest.NewRouter(&rest.Container{
		Config:            cfg,
		Catalog:           questions,
		SubmissionService: submissionSvc,
		EntryService:      entrySvc,
		WSHub:             wsHub,
		Gatherer:          reg,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreBaseURL),
			zap.Strings("endpoints", []string{
				"POST /submit",
				"GET  /journalEntries",
				"GET  /catalog",
				"WS   /ws/entries",
				"GET  /metrics",
			}),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
