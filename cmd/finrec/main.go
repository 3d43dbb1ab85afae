// Package main initializes and runs the finrec recommendation service.
//
// It is the composition root: configuration, logging, the two database
// pools, the optional Redis mirror, every cache handle, and the HTTP
// servers are all wired here and nowhere else.
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

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/projectteamwork/finrec/internal/api"
	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/config"
	"github.com/projectteamwork/finrec/internal/database"
	"github.com/projectteamwork/finrec/internal/engine"
	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/logger"
	"github.com/projectteamwork/finrec/internal/observability"
	"github.com/projectteamwork/finrec/internal/recommender"
	"github.com/projectteamwork/finrec/internal/rules"
	"github.com/projectteamwork/finrec/internal/stats"
	"github.com/projectteamwork/finrec/internal/store"
	"github.com/projectteamwork/finrec/internal/userlookup"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// -------------------------------------------------------------------------
	// 1. Configuration & Logging
	// -------------------------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.New(&cfg.App)
	slog.SetDefault(lg)
	cfg.LogConfig(lg)

	// -------------------------------------------------------------------------
	// 2. Infrastructure
	// -------------------------------------------------------------------------
	rulesPool, err := database.NewPostgresPool(ctx, &cfg.RulesDB)
	if err != nil {
		return fmt.Errorf("failed to connect to rules database: %w", err)
	}
	defer rulesPool.Close()

	txPool, err := database.NewPostgresPool(ctx, &cfg.TransactionDB)
	if err != nil {
		return fmt.Errorf("failed to connect to transaction database: %w", err)
	}
	defer txPool.Close()

	// Redis is an optional fire-count mirror; the service runs without it.
	var redisClient *redis.Client
	if cfg.Redis.IsConfigured() {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	// -------------------------------------------------------------------------
	// 3. Cache Handles
	// -------------------------------------------------------------------------
	existsCache, err := cache.NewMemory[string, bool]("fact_exists", cfg.Cache.FactCapacity, cfg.Cache.FactTTL)
	if err != nil {
		return fmt.Errorf("failed to build fact_exists cache: %w", err)
	}
	countCache, err := cache.NewMemory[string, int]("fact_count", cfg.Cache.FactCapacity, cfg.Cache.FactTTL)
	if err != nil {
		return fmt.Errorf("failed to build fact_count cache: %w", err)
	}
	sumCache, err := cache.NewMemory[string, int64]("fact_sum", cfg.Cache.FactCapacity, cfg.Cache.FactTTL)
	if err != nil {
		return fmt.Errorf("failed to build fact_sum cache: %w", err)
	}
	evalCache, err := cache.NewMemory[string, bool]("rule_evaluation", cfg.Cache.EvalCapacity, cfg.Cache.EvalTTL)
	if err != nil {
		return fmt.Errorf("failed to build rule_evaluation cache: %w", err)
	}
	statCache, err := cache.NewMemory[string, int64]("rule_stat", cfg.Cache.StatCapacity, cfg.Cache.StatTTL)
	if err != nil {
		return fmt.Errorf("failed to build rule_stat cache: %w", err)
	}
	listingCache, err := cache.NewMemory[string, []rules.Rule]("rule_listing", cfg.Cache.ListingCapacity, cfg.Cache.ListingTTL)
	if err != nil {
		return fmt.Errorf("failed to build rule_listing cache: %w", err)
	}
	recCache, err := cache.NewMemory[string, []recommender.Recommendation]("recommendations", cfg.Cache.RecommendationCapacity, cfg.Cache.RecommendationTTL)
	if err != nil {
		return fmt.Errorf("failed to build recommendations cache: %w", err)
	}
	lookupCache, err := cache.NewMemory[string, uuid.UUID]("user_id_lookup", cfg.Cache.UserLookupCapacity, cfg.Cache.UserLookupTTL)
	if err != nil {
		return fmt.Errorf("failed to build user_id_lookup cache: %w", err)
	}

	registry := cache.NewRegistry(lg)
	registry.Register(existsCache, countCache, sumCache, evalCache, statCache, listingCache, recCache, lookupCache)

	// -------------------------------------------------------------------------
	// 4. Wiring
	// -------------------------------------------------------------------------
	provider := facts.NewCachedProvider(facts.NewPostgresProvider(txPool), facts.Caches{
		Exists: existsCache,
		Count:  countCache,
		Sum:    sumCache,
	})

	repo := store.NewCachedRepository(store.NewPostgresStore(rulesPool), listingCache)

	var mirror *stats.Mirror
	if redisClient != nil {
		mirror = stats.NewMirror(redisClient)
		registry.Register(mirror)
	}
	tracker := stats.NewTracker(stats.NewPostgresStore(rulesPool), statCache, mirror, lg)

	evaluator := engine.New(provider, evalCache, lg)

	recService := recommender.NewService(
		recommender.DefaultStaticRules(),
		provider,
		repo,
		evaluator,
		tracker,
		recCache,
		lg,
	)

	resolver := userlookup.NewCachedResolver(userlookup.NewPostgresResolver(txPool), lookupCache)

	restAPI := api.NewAPI(repo, recService, tracker, resolver, registry, api.BuildInfo{
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
	}, lg)

	// -------------------------------------------------------------------------
	// 5. Observability Server
	// -------------------------------------------------------------------------
	checkers := []observability.Checker{
		database.NewHealthChecker("rules_db", rulesPool),
		database.NewHealthChecker("transactions_db", txPool),
	}
	if redisClient != nil {
		checkers = append(checkers, cache.NewHealthChecker(redisClient))
	}

	obsServer := observability.NewServer(lg, &cfg.Observability, checkers...)
	obsServer.Start()

	// -------------------------------------------------------------------------
	// 6. Business API Server
	// -------------------------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      restAPI.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		lg.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server failed: %w", err)
		}
	}()

	// -------------------------------------------------------------------------
	// 7. Graceful Shutdown
	// -------------------------------------------------------------------------
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		lg.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("API server shutdown failed", slog.String("error", err.Error()))
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		lg.Error("observability server shutdown failed", slog.String("error", err.Error()))
	}

	for _, c := range []interface{ Close() }{
		existsCache, countCache, sumCache, evalCache, statCache, listingCache, recCache, lookupCache,
	} {
		c.Close()
	}

	lg.Info("service exited")
	return nil
}
