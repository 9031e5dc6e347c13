package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	appconfig "github.com/spazahub/spaza_api/internal/config"
)

// connectBaseDelay is the first retry delay; each attempt doubles it, capped
// at 5s.
const connectBaseDelay = 500 * time.Millisecond

// Connect establishes a PostgreSQL connection using the provided
// configuration. Transient startup failures (e.g. the DB container still
// booting) are retried up to cfg.ConnectAttempts times with exponential
// backoff. The returned *sqlx.DB has the configured pool limits applied and
// is pinged before returning.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var db *sqlx.DB
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, lastErr = sqlx.Open("postgres", dsn)
		if lastErr != nil {
			sleepWithBackoff(attempt)
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}

		_ = db.Close()
		sleepWithBackoff(attempt)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

// sleepWithBackoff sleeps for connectBaseDelay * 2^(attempt-1), capped to 5s.
func sleepWithBackoff(attempt int) {
	d := connectBaseDelay << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
