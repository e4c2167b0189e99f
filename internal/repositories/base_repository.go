// internal/repositories/base_repository.go
package repositories

import (
	"context"
	"database/sql"
	"time"

	"castnfish/internal/database"

	"go.uber.org/zap"
)

// slowQueryThreshold is the duration above which a query is logged as slow.
const slowQueryThreshold = 100 * time.Millisecond

// BaseRepository provides common database operations with slow-query logging.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository.
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{db: db, logger: logger}
}

// ExecContext executes a statement.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.observe(query, start, err)
	return result, err
}

// QueryContext executes a query returning rows.
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.observe(query, start, err)
	return rows, err
}

// QueryRowContext executes a query returning at most one row.
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.observe(query, start, nil)
	return row
}

// BeginTx starts a transaction.
func (r *BaseRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// GetLogger returns the repository logger.
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}

func (r *BaseRepository) observe(query string, start time.Time, err error) {
	duration := time.Since(start)
	if duration > slowQueryThreshold {
		r.logger.Warn("Slow query detected",
			zap.String("query", truncateQuery(query)),
			zap.Duration("duration", duration),
		)
	}
	if err != nil && err != sql.ErrNoRows {
		r.logger.Error("Query execution failed",
			zap.String("query", truncateQuery(query)),
			zap.Error(err),
		)
	}
}

func truncateQuery(query string) string {
	const max = 200
	if len(query) <= max {
		return query
	}
	return query[:max] + "..."
}
