package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics is a point-in-time snapshot of relay counters.
type Metrics struct {
	EventsPublished uint64  `json:"events_published"`
	EventsRate      float64 `json:"events_rate"`
	ErrorsTotal     uint64  `json:"errors_total"`
	ErrorsRate      float64 `json:"errors_rate"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// Collector counts published events and errors on atomic counters and logs a
// snapshot on a fixed interval.
type Collector struct {
	published atomic.Uint64
	errors    atomic.Uint64
	start     time.Time
	interval  time.Duration
	logger    *logrus.Logger
}

func NewCollector(interval time.Duration, logger *logrus.Logger) *Collector {
	if logger == nil {
		logger = logrus.New()
	}
	return &Collector{
		start:    time.Now(),
		interval: interval,
		logger:   logger,
	}
}

// RecordPublished adds to the published-event counter.
func (c *Collector) RecordPublished(n uint64) {
	c.published.Add(n)
}

// RecordError increments the error counter.
func (c *Collector) RecordError() {
	c.errors.Add(1)
}

// Snapshot returns current counters and derived rates.
func (c *Collector) Snapshot() Metrics {
	uptime := time.Since(c.start).Seconds()
	published := c.published.Load()
	errs := c.errors.Load()

	var eventsRate, errorsRate float64
	if uptime > 0 {
		eventsRate = float64(published) / uptime
		errorsRate = float64(errs) / uptime
	}

	return Metrics{
		EventsPublished: published,
		EventsRate:      eventsRate,
		ErrorsTotal:     errs,
		ErrorsRate:      errorsRate,
		UptimeSeconds:   uptime,
	}
}

// Run logs a metrics snapshot every interval until the context is canceled.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := c.Snapshot()
			c.logger.WithFields(logrus.Fields{
				"published":   m.EventsPublished,
				"events_rate": m.EventsRate,
				"errors":      m.ErrorsTotal,
				"uptime_s":    m.UptimeSeconds,
			}).Info("relay metrics")
		}
	}
}
