// ============================================================================
// collector/collector.go - Subgraph poll loop feeding the relay sinks
// ============================================================================
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/models"
	"uniswap-relay/internal/storage"
	"uniswap-relay/internal/subgraph"
	"uniswap-relay/internal/telemetry"
)

// Config holds the collector's dependencies. Publisher is required; Cache and
// Archive are optional sinks.
type Config struct {
	Client       *subgraph.Client
	Publisher    storage.SwapPublisher
	Cache        storage.SwapCache
	Archive      storage.SwapArchive
	Metrics      *telemetry.Collector
	PollInterval time.Duration
	BatchSize    int
	Logger       *logrus.Logger
}

// Collector polls the Uniswap V2 and V3 subgraphs on a fixed interval,
// normalizes new swaps and fans them out to the configured sinks.
type Collector struct {
	client    *subgraph.Client
	publisher storage.SwapPublisher
	cache     storage.SwapCache
	archive   storage.SwapArchive
	metrics   *telemetry.Collector
	interval  time.Duration
	batchSize int
	logger    *logrus.Logger

	mu      sync.Mutex
	running bool
	seenV2  map[string]struct{}
	seenV3  map[string]struct{}
}

func New(cfg Config) *Collector {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Collector{
		client:    cfg.Client,
		publisher: cfg.Publisher,
		cache:     cfg.Cache,
		archive:   cfg.Archive,
		metrics:   cfg.Metrics,
		interval:  cfg.PollInterval,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger,
		seenV2:    make(map[string]struct{}),
		seenV3:    make(map[string]struct{}),
	}
}

// Start begins polling until the context is canceled.
func (c *Collector) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("collector already running")
	}
	c.running = true
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.WithFields(logrus.Fields{
		"interval": c.interval,
		"batch":    c.batchSize,
	}).Info("starting subgraph polling")

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			return ctx.Err()

		case <-ticker.C:
			if err := c.pollV2(ctx); err != nil {
				c.logger.WithError(err).Error("v2 poll error")
				if c.metrics != nil {
					c.metrics.RecordError()
				}
			}
			if err := c.pollV3(ctx); err != nil {
				c.logger.WithError(err).Error("v3 poll error")
				if c.metrics != nil {
					c.metrics.RecordError()
				}
			}
		}
	}
}

func (c *Collector) pollV2(ctx context.Context) error {
	rows, err := c.client.RecentV2Swaps(ctx, c.batchSize)
	if err != nil {
		return err
	}

	fresh := make([]*models.SwapEvent, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	// Rows arrive newest first; publish oldest first so subscribers see
	// events in chain order.
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		seen[row.ID] = struct{}{}
		if _, ok := c.seenV2[row.ID]; ok {
			continue
		}
		fresh = append(fresh, FromV2(&row))
	}
	c.seenV2 = seen

	return c.dispatch(ctx, fresh, "v2")
}

func (c *Collector) pollV3(ctx context.Context) error {
	rows, err := c.client.RecentV3Swaps(ctx, c.batchSize)
	if err != nil {
		return err
	}

	fresh := make([]*models.SwapEvent, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		seen[row.ID] = struct{}{}
		if _, ok := c.seenV3[row.ID]; ok {
			continue
		}
		fresh = append(fresh, FromV3(&row))
	}
	c.seenV3 = seen

	return c.dispatch(ctx, fresh, "v3")
}

// dispatch fans new events out: cache and archive failures are logged but do
// not block publishing, which is the relay's actual job.
func (c *Collector) dispatch(ctx context.Context, swaps []*models.SwapEvent, source string) error {
	if len(swaps) == 0 {
		return nil
	}

	for _, swap := range swaps {
		if c.cache != nil {
			if err := c.cache.AddRecentSwap(ctx, swap); err != nil {
				c.logger.WithError(err).Warn("cache write failed")
			}
		}
		if c.archive != nil {
			if err := c.archive.InsertSwap(ctx, swap); err != nil {
				c.logger.WithError(err).Warn("archive write failed")
			}
		}
	}

	if err := c.publisher.PublishBatch(ctx, swaps); err != nil {
		return fmt.Errorf("publish %s batch: %w", source, err)
	}

	if c.metrics != nil {
		c.metrics.RecordPublished(uint64(len(swaps)))
	}

	c.logger.WithFields(logrus.Fields{
		"source": source,
		"count":  len(swaps),
	}).Info("published swap events")
	return nil
}
