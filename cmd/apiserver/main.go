// API server entry point for the MedGuard risk scoring service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medguard-uz/medguard/internal/application/risk"
	"github.com/medguard-uz/medguard/internal/config"
	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
	"github.com/medguard-uz/medguard/internal/domain/catalog"
	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/domain/pricing"
	"github.com/medguard-uz/medguard/internal/infrastructure/database/postgres"
	"github.com/medguard-uz/medguard/internal/infrastructure/database/redis"
	"github.com/medguard-uz/medguard/internal/infrastructure/messaging/kafka"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/medguard-uz/medguard/internal/interfaces/http"
	"github.com/medguard-uz/medguard/internal/interfaces/http/handlers"
	"github.com/medguard-uz/medguard/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logger = logger.Named("apiserver")
	logger.Info("starting medguard API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ──────────────────────────────────────────────────────────

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "medguard",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	// ── Reference catalog ────────────────────────────────────────────────

	var redisClient *redis.Client
	var catalogCache *redis.CatalogCache
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		catalogCache = redis.NewCatalogCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL, logger)
		catalogCache.SetMetrics(metrics)
	}

	cat, err := loadCatalog(ctx, cfg, catalogCache, logger)
	if err != nil {
		return err
	}
	store := catalog.NewStore(cat)
	logger.Info("catalog installed",
		logging.String("version", cat.Version),
		logging.Int("drugs", len(cat.Drugs)),
		logging.Int("batches", len(cat.Batches)))

	if catalogCache != nil {
		if err := catalogCache.Publish(ctx, cat); err != nil {
			logger.Warn("catalog snapshot publish failed", logging.Err(err))
		}
	}

	// ── Complaint log and durable archive ────────────────────────────────

	log := complaint.NewLog()
	opts := risk.Options{Logger: logger, Metrics: metrics}

	var conn *postgres.Connection
	if cfg.Database.Enabled {
		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		conn, err = postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		archive := postgres.NewComplaintArchive(conn, logger)
		restored, err := archive.RestoreAll(ctx)
		if err != nil {
			return fmt.Errorf("complaint restore: %w", err)
		}
		log.Seed(restored)
		logger.Info("complaint log restored", logging.Int("records", len(restored)))

		opts.Archive = archive
	}

	// ── Event stream ─────────────────────────────────────────────────────

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts.Events = kafka.NewEventPublisher(producer)
	}

	// ── Scoring stack ────────────────────────────────────────────────────

	strategy, err := pricing.NewStrategy(cfg.Scoring.Strategy, cfg.Scoring.NumTrees)
	if err != nil {
		return err
	}
	rng := pricing.NewRand(cfg.Scoring.Seed)
	service := risk.NewService(store, log,
		pricing.NewScorer(store, strategy, cfg.Scoring.Contamination, rng),
		batchrisk.NewScorer(store, log, nil, rng),
		opts)

	if configPath != "" {
		config.Watch(configPath, func(newCfg *config.Config) {
			if newCfg.Catalog.Path == "" {
				return
			}
			next, err := catalog.LoadFile(newCfg.Catalog.Path)
			if err != nil {
				logger.Error("catalog reload from config change failed", logging.Err(err))
				return
			}
			if err := service.ReloadCatalog(context.Background(), next); err != nil {
				logger.Error("catalog reload rejected", logging.Err(err))
			}
		})
	}

	// ── HTTP surface ─────────────────────────────────────────────────────

	routerCfg := httpserver.RouterConfig{
		RiskHandler:      handlers.NewRiskHandler(service),
		HealthHandler:    handlers.NewHealthHandler(version, healthCheckers(conn, redisClient)...),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewTokenBucketLimiter(
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize, 5*time.Minute)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	server := httpserver.NewServer(cfg.Server.Port, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// loadCatalog loads the reference dataset: an explicit file when configured,
// otherwise the embedded seed.  When the local source fails and a Redis
// snapshot exists, the snapshot is used so a bad deploy does not take scoring
// offline.
func loadCatalog(ctx context.Context, cfg *config.Config, cache *redis.CatalogCache, logger logging.Logger) (*catalog.Catalog, error) {
	var cat *catalog.Catalog
	var err error
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
	} else {
		cat, err = catalog.LoadEmbedded()
	}
	if err == nil {
		return cat, nil
	}

	if cache != nil {
		logger.Warn("local catalog load failed, trying cached snapshot", logging.Err(err))
		if cached, cacheErr := cache.Fetch(ctx); cacheErr == nil {
			return cached, nil
		}
	}
	return nil, err
}
