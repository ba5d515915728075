package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// Client wraps a pgx connection pool with observability. It implements the
// repository store interfaces.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient creates a store client on top of an existing pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Ping verifies database connectivity, used by the health check
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// observe records metrics and a log line for a finished store operation
func observe(operation string, start time.Time, err error, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
		fields = append(fields, zap.Error(err))
	}
	metrics.RecordStoreOperation(operation, status, duration)
	logger.LogStoreCall("postgres", operation, status, duration, fields...)
}

// nilIfEmpty maps empty strings to NULL-able pointers for optional columns
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
