package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"commerce-platform/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the SQL connection pool for one microservice's database.
type Service struct {
	db *sql.DB
}

// New opens a connection pool against the configured Postgres database.
func New(cfg config.DatabaseConfig) (*Service, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
	)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Service{db: db}, nil
}

// DB returns the underlying connection pool.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health returns a snapshot of connection pool health, suitable for logging
// or a health endpoint payload.
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	poolStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(poolStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(poolStats.InUse)
	stats["idle"] = strconv.Itoa(poolStats.Idle)

	return stats
}

// Close closes the connection pool.
func (s *Service) Close() error {
	return s.db.Close()
}
