// ============================================================================
// cmd/listener/main.go - Redis Event Listener (diagnostic consumer)
// ============================================================================
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"uniswap-relay/internal/config"
	"uniswap-relay/internal/listener"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Best effort; the listener works from plain environment variables too.
	_ = godotenv.Load()

	cfg := config.Load()

	fmt.Println("🚀 Uniswap Relay DApp - Redis Event Listener")
	fmt.Println("============================================================")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	l := listener.New(listener.Config{
		Addr:         cfg.RedisAddr,
		Channel:      cfg.RedisChannel,
		AuditLogPath: cfg.AuditLogPath,
	})

	err := l.Run(ctx)

	// Release the subscription and connection; failures here are ignored.
	_ = l.Close()

	if err == nil {
		fmt.Println("\n\n👋 Shutting down...")
		fmt.Printf("📈 Total events received: %d\n", l.Count())
		return 0
	}

	var connErr *listener.ConnectionError
	if errors.As(err, &connErr) {
		fmt.Printf("❌ Failed to connect to Redis at %s\n", connErr.Addr)
		fmt.Println("Make sure Redis is running and accessible")
		return 1
	}

	fmt.Printf("❌ Error: %v\n", err)
	return 1
}
