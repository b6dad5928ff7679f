// ============================================================================
// archive/clickhouse.go - Long-term swap history in ClickHouse
// ============================================================================
package archive

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/models"
)

// Options carries ClickHouse connection settings.
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// ClickHouseStore archives every published swap for later analytics.
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, opts Options) (*ClickHouseStore, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping ClickHouse: %w", err)
	}

	opts.Logger.WithFields(logrus.Fields{
		"addr":     opts.Addr,
		"database": opts.Database,
	}).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: opts.Logger}, nil
}

// EnsureTable creates the swaps table if it does not exist yet.
func (c *ClickHouseStore) EnsureTable(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS swaps (
			chain            String,
			dex              String,
			transaction_hash String,
			block_number     UInt64,
			pool_address     String,
			token_in         String,
			token_out        String,
			amount_in        String,
			amount_out       String,
			amount_usd       String,
			sender           String,
			timestamp        String,
			received_at      DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (dex, received_at)
	`
	if err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create swaps table: %w", err)
	}
	return nil
}

// InsertSwap appends one swap event to the archive.
func (c *ClickHouseStore) InsertSwap(ctx context.Context, swap *models.SwapEvent) error {
	query := `
		INSERT INTO swaps (
			chain, dex, transaction_hash, block_number, pool_address,
			token_in, token_out, amount_in, amount_out, amount_usd,
			sender, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		swap.Chain,
		swap.Dex,
		swap.TransactionHash,
		swap.BlockNumber,
		swap.PoolAddress,
		swap.TokenIn.Symbol,
		swap.TokenOut.Symbol,
		string(swap.AmountIn),
		string(swap.AmountOut),
		string(swap.AmountUSD),
		swap.Sender,
		string(swap.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert swap: %w", err)
	}
	return nil
}

// Ping checks if the archive is reachable.
func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the archive connection.
func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
