package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/backoff"
)

// Client is a GraphQL-over-HTTP client for the Uniswap V2 and V3 subgraphs,
// with retry and timeout support.
type Client struct {
	httpClient *http.Client
	v2URL      string
	v3URL      string
	maxRetries int
	retryInit  time.Duration
	retryMax   time.Duration
	logger     *logrus.Logger
}

// ClientConfig holds configuration for the subgraph client.
type ClientConfig struct {
	V2URL         string
	V3URL         string
	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RetryMaxDelay time.Duration
	Logger        *logrus.Logger
}

// NewClient creates a new subgraph client with retry support.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		v2URL:      cfg.V2URL,
		v3URL:      cfg.V3URL,
		maxRetries: cfg.MaxRetries,
		retryInit:  cfg.RetryBackoff,
		retryMax:   cfg.RetryMaxDelay,
		logger:     cfg.Logger,
	}
}

const v2SwapsQuery = `
query RecentSwaps($first: Int!) {
  swaps(first: $first, orderBy: timestamp, orderDirection: desc) {
    id
    timestamp
    transaction { id }
    pair {
      id
      token0 { id symbol name }
      token1 { id symbol name }
    }
    sender
    amount0In
    amount1In
    amount0Out
    amount1Out
    amountUSD
  }
}`

const v3SwapsQuery = `
query RecentSwaps($first: Int!) {
  swaps(first: $first, orderBy: timestamp, orderDirection: desc) {
    id
    timestamp
    transaction { id }
    pool { id feeTier }
    token0 { id symbol name }
    token1 { id symbol name }
    sender
    amount0
    amount1
    amountUSD
  }
}`

// RecentV2Swaps fetches the latest V2 swaps, newest first.
func (c *Client) RecentV2Swaps(ctx context.Context, first int) ([]V2Swap, error) {
	var out struct {
		Swaps []V2Swap `json:"swaps"`
	}
	if err := c.query(ctx, c.v2URL, v2SwapsQuery, map[string]interface{}{"first": first}, &out); err != nil {
		return nil, fmt.Errorf("v2 swaps query: %w", err)
	}
	return out.Swaps, nil
}

// RecentV3Swaps fetches the latest V3 swaps, newest first.
func (c *Client) RecentV3Swaps(ctx context.Context, first int) ([]V3Swap, error) {
	var out struct {
		Swaps []V3Swap `json:"swaps"`
	}
	if err := c.query(ctx, c.v3URL, v3SwapsQuery, map[string]interface{}{"first": first}, &out); err != nil {
		return nil, fmt.Errorf("v3 swaps query: %w", err)
	}
	return out.Swaps, nil
}

// TestConnectivity runs a minimal query against both subgraphs so startup
// fails fast on bad URLs or an unreachable gateway.
func (c *Client) TestConnectivity(ctx context.Context) error {
	probe := `query { _meta { block { number } } }`

	var out json.RawMessage
	if err := c.query(ctx, c.v2URL, probe, nil, &out); err != nil {
		return fmt.Errorf("v2 subgraph connectivity: %w", err)
	}
	if err := c.query(ctx, c.v3URL, probe, nil, &out); err != nil {
		return fmt.Errorf("v3 subgraph connectivity: %w", err)
	}
	return nil
}

// query posts a GraphQL request and decodes the data payload into out,
// retrying transient failures with exponential backoff.
func (c *Client) query(ctx context.Context, url, query string, variables map[string]interface{}, out interface{}) error {
	body := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	bo := backoff.New(c.retryInit, c.retryMax, 2.0, c.maxRetries+1)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay, ok := bo.Next()
			if !ok {
				break
			}
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": delay,
				"url":     url,
			}).Debug("retrying subgraph query")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doQuery(ctx, url, data, out)
		if err == nil {
			return nil
		}
		lastErr = err

		// GraphQL-level errors are not transient; do not retry them.
		if strings.Contains(err.Error(), "graphql:") {
			return err
		}
	}

	return fmt.Errorf("subgraph query failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) doQuery(ctx context.Context, url string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result queryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
