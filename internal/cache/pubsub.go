// ============================================================================
// cache/pubsub.go - Redis Pub/Sub publisher for swap events
// ============================================================================
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/models"
)

// Publisher fans swap events out on a single pub/sub channel. Subscribers
// that are not listening at publish time simply miss the event; that is the
// pub/sub contract, not an error.
type Publisher struct {
	client  *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewPublisher(addr, channel string, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Publisher{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		channel: channel,
		logger:  logger,
	}
}

// NewPublisherFromClient wraps an existing Redis client, for callers that
// share one connection pool between cache and publisher.
func NewPublisherFromClient(client *redis.Client, channel string, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Publisher{client: client, channel: channel, logger: logger}
}

// Publish sends a single swap event to the channel.
func (p *Publisher) Publish(ctx context.Context, swap *models.SwapEvent) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("marshal swap event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	p.logger.WithFields(logrus.Fields{
		"channel": p.channel,
		"tx":      swap.ShortHash(),
	}).Debug("published swap event")
	return nil
}

// PublishBatch sends several events in one pipelined round trip.
func (p *Publisher) PublishBatch(ctx context.Context, swaps []*models.SwapEvent) error {
	if len(swaps) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, swap := range swaps {
		data, err := json.Marshal(swap)
		if err != nil {
			return fmt.Errorf("marshal swap event: %w", err)
		}
		pipe.Publish(ctx, p.channel, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish batch of %d to %s: %w", len(swaps), p.channel, err)
	}

	p.logger.WithFields(logrus.Fields{
		"channel": p.channel,
		"count":   len(swaps),
	}).Debug("published swap batch")
	return nil
}

// Ping checks if the broker is reachable.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the broker connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
