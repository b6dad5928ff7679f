// ============================================================================
// cmd/api/main.go - HTTP API over the recent-swaps cache and swap archive
// ============================================================================
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/ai"
	"uniswap-relay/internal/cache"
	"uniswap-relay/internal/config"
	"uniswap-relay/internal/server"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
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

	// Redis client shared by the recent-swaps cache
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	swapCache := cache.NewRedisCacheFromClient(rclient, logger)

	// AI agent is optional: it needs both an archive and an OpenRouter key
	var agent *ai.Agent
	if cfg.OpenRouterAPIKey != "" && cfg.ArchiveEnabled() {
		a, err := ai.NewAgent(ctx, ai.AgentConfig{
			ClickHouseAddr:     cfg.ClickHouseAddr,
			ClickHouseDatabase: cfg.ClickHouseDatabase,
			ClickHouseUsername: cfg.ClickHouseUsername,
			ClickHousePassword: cfg.ClickHousePassword,
			OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
			Logger:             logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize AI agent")
		}
		defer a.Close()
		agent = a
	} else {
		logger.Info("AI endpoint disabled (requires OPENROUTER_API_KEY and CLICKHOUSE_ADDR)")
	}

	handlers := &server.Handlers{
		Cache:   swapCache,
		AI:      agent,
		DevMode: cfg.DevMode,
		Logger:  logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: handlers,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()
	logger.WithField("addr", cfg.APIAddr).Info("API server running")

	<-sigCh
	logger.Info("shutting down API server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if err := srv.WaitClosed(shutdownCtx); err != nil {
		logger.WithError(err).Error("server close wait failed")
	}

	_ = rclient.Close()
	logger.Info("API server shutdown complete")
}
