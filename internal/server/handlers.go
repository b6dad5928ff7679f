package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/ai"
	"uniswap-relay/internal/storage"
	"uniswap-relay/internal/telemetry"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Cache   storage.SwapCache    // Redis-backed recent-swaps cache
	Metrics *telemetry.Collector // Relay counters (optional)
	AI      *ai.Agent            // AI agent for natural language queries (optional)
	DevMode bool                 // Enable detailed error responses in development
	Logger  *logrus.Logger       // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns service status plus relay counters when available
func (h *Handlers) Health(c echo.Context) error {
	resp := HealthResponse{OK: true}
	if h.Metrics != nil {
		m := h.Metrics.Snapshot()
		resp.Metrics = &m
	}
	return c.JSON(http.StatusOK, resp)
}

// RecentSwaps returns the most recent swap events with optional limit parameter
// Accepts limit query parameter (default: 100, range: 1-100)
func (h *Handlers) RecentSwaps(c echo.Context) error {
	limitStr := c.QueryParam("limit")
	limit := int64(100)
	if limitStr != "" {
		n, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || n < 1 || n > 100 {
			return h.err(c, http.StatusBadRequest, "limit must be an integer between 1 and 100", nil)
		}
		limit = n
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	swaps, err := h.Cache.GetRecentSwaps(ctx, limit)
	if err != nil {
		h.Logger.WithError(err).Error("recent swaps lookup failed")
		return h.err(c, http.StatusInternalServerError, "failed to fetch recent swaps", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"items": swaps})
}

// AIAsk translates a natural language question to SQL over the swap archive
// and returns the summarised answer
func (h *Handlers) AIAsk(c echo.Context) error {
	if h.AI == nil {
		return h.err(c, http.StatusServiceUnavailable, "ai is not configured", nil)
	}

	var req AIAskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return h.err(c, http.StatusBadRequest, "question is required", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	start := time.Now()
	result, err := h.AI.Ask(ctx, req.Question)
	if err != nil {
		h.Logger.WithError(err).Error("ai ask failed")
		return h.err(c, http.StatusInternalServerError, "failed to answer question", err.Error())
	}

	return c.JSON(http.StatusOK, AIAskResponse{
		SQL:    result.SQL,
		Answer: result.Answer,
		TookMs: time.Since(start).Milliseconds(),
	})
}
