// ============================================================================
// cmd/relay/main.go - Subgraph collector and pub/sub publisher daemon
// ============================================================================
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/archive"
	"uniswap-relay/internal/cache"
	"uniswap-relay/internal/collector"
	"uniswap-relay/internal/config"
	"uniswap-relay/internal/storage"
	"uniswap-relay/internal/subgraph"
	"uniswap-relay/internal/telemetry"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Subgraph client; fail fast if the gateway is unreachable
	client := subgraph.NewClient(subgraph.ClientConfig{
		V2URL:         cfg.SubgraphV2URL,
		V3URL:         cfg.SubgraphV3URL,
		Timeout:       cfg.HTTPTimeout,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
		RetryMaxDelay: cfg.RetryMaxDelay,
		Logger:        logger,
	})
	if err := client.TestConnectivity(ctx); err != nil {
		logger.WithError(err).Fatal("subgraph connectivity check failed")
	}
	logger.Info("subgraph connectivity verified")

	// Redis publisher and recent-swaps cache
	publisher := cache.NewPublisher(cfg.RedisAddr, cfg.RedisChannel, logger)
	if err := publisher.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer publisher.Close()
	logger.WithField("channel", cfg.RedisChannel).Info("redis connection established")

	swapCache := cache.NewRedisCache(cfg.RedisAddr, logger)
	defer swapCache.Close()

	// Optional ClickHouse archive
	var swapArchive storage.SwapArchive
	if cfg.ArchiveEnabled() {
		ch, err := archive.NewClickHouseStore(ctx, archive.Options{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to ClickHouse")
		}
		if err := ch.EnsureTable(ctx); err != nil {
			logger.WithError(err).Fatal("failed to prepare ClickHouse schema")
		}
		defer ch.Close()
		swapArchive = ch
	} else {
		logger.Info("archive disabled (CLICKHOUSE_ADDR not set)")
	}

	// Metrics
	metrics := telemetry.NewCollector(cfg.MetricsInterval, logger)
	go metrics.Run(ctx)

	// Collector
	coll := collector.New(collector.Config{
		Client:       client,
		Publisher:    publisher,
		Cache:        swapCache,
		Archive:      swapArchive,
		Metrics:      metrics,
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- coll.Start(ctx)
	}()

	logger.Info("relay running, press Ctrl+C to stop")

	select {
	case <-sigCh:
		logger.Info("shutting down relay")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Fatal("collector stopped unexpectedly")
		}
	}

	m := metrics.Snapshot()
	logger.WithFields(logrus.Fields{
		"published": m.EventsPublished,
		"errors":    m.ErrorsTotal,
	}).Info("relay shutdown complete")
}
