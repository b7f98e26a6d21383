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

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lunalog/internal/catalog"
	"lunalog/internal/config"
	"lunalog/internal/repository"
	"lunalog/internal/service"
	"lunalog/internal/transport/rest"
)

// Reference implementation of the journal store contract: POST /journal,
// GET /journal/all and POST /recommend.
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
		logger.Fatal("store stopped", zap.Error(err))
	}
	logger.Info("store exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	logger.Info("connected to mongodb", zap.String("db", cfg.MongoDB))

	repo := repository.NewEntryRepo(mongoClient.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	questions, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	enrichment := service.NewEnrichmentService(repo, questions, logger)

	srv := &http.Server{
		Addr: cfg.StoreHTTPAddr,
		Handler: rest.NewStoreRouter(&rest.StoreContainer{
			Repo:        repo,
			Recommender: enrichment,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("store starting", zap.String("addr", cfg.StoreHTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down store")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
