package storage

import (
	"context"
	"io"

	"uniswap-relay/internal/models"
)

// SwapPublisher pushes normalized swap events to the pub/sub channel.
type SwapPublisher interface {
	// Publish sends a single swap event to subscribers.
	Publish(ctx context.Context, swap *models.SwapEvent) error

	// PublishBatch sends several events in one round trip.
	PublishBatch(ctx context.Context, swaps []*models.SwapEvent) error

	// Ping checks if the broker is reachable.
	Ping(ctx context.Context) error

	// Close closes the broker connection.
	io.Closer
}

// SwapCache keeps a bounded window of recent swaps for the API.
type SwapCache interface {
	// AddRecentSwap adds a swap to the recent swaps list.
	AddRecentSwap(ctx context.Context, swap *models.SwapEvent) error

	// GetRecentSwaps retrieves the most recent swaps, newest first.
	GetRecentSwaps(ctx context.Context, limit int64) ([]*models.SwapEvent, error)

	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	io.Closer
}

// SwapArchive is the long-term store for swap history.
type SwapArchive interface {
	// InsertSwap inserts a swap event into the archive.
	InsertSwap(ctx context.Context, swap *models.SwapEvent) error

	// Ping checks if the archive is reachable.
	Ping(ctx context.Context) error

	// Close closes the archive connection.
	io.Closer
}

// SwapHandler is a function that processes swap events.
type SwapHandler func(*models.SwapEvent)
