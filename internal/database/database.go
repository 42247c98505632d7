package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"skinker-shop/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// placeholderPasswords are the values shipped in sample .env files.
var placeholderPasswords = []string{"your_password_here", "tu_contraseña_aquí"}

// NewPool creates a new PostgreSQL connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := buildPoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// buildPoolConfig turns cfg into a pool configuration. A DATABASE_URL may
// carry its own pool_max_conns, pool_min_conns and pool_max_conn_lifetime;
// those win over the DB_* settings.
func buildPoolConfig(cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Config, error) {
	connString := cfg.ConnectionString()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	source := "settings"
	if cfg.URL != "" {
		source = "DATABASE_URL"
	}

	if !hasPoolSetting(connString, "pool_max_conns") {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if !hasPoolSetting(connString, "pool_min_conns") {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		return nil, fmt.Errorf("invalid pool size: min connections %d exceed max connections %d", poolConfig.MinConns, poolConfig.MaxConns)
	}
	if lifetime := cfg.ConnLifetime(); lifetime > 0 && !hasPoolSetting(connString, "pool_max_conn_lifetime") {
		poolConfig.MaxConnLifetime = lifetime
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	for _, placeholder := range placeholderPasswords {
		if strings.Contains(poolConfig.ConnConfig.Password, placeholder) {
			logger.Warn().Str("source", source).Msg("database password looks like the sample placeholder")
			break
		}
	}

	logger.Info().
		Str("source", source).
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_connections", poolConfig.MaxConns).
		Int32("min_connections", poolConfig.MinConns).
		Msg("creating database connection pool")

	return poolConfig, nil
}

// hasPoolSetting reports whether connString sets key, in either URL or
// keyword/value form.
func hasPoolSetting(connString, key string) bool {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return false
		}
		return u.Query().Has(key)
	}

	for _, field := range strings.Fields(connString) {
		if strings.HasPrefix(field, key+"=") {
			return true
		}
	}
	return false
}
