package repo

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ConfigRepositoryPG implements domain.ConfigRepository over the
// system_config key/value table.
type ConfigRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewConfigRepository creates a config repository backed by PostgreSQL.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepositoryPG {
	return &ConfigRepositoryPG{pool: pool}
}

// Get returns the stored value for key, or domain.ErrNotFound.
func (r *ConfigRepositoryPG) Get(ctx context.Context, key string) (string, error) {
	query := `
SELECT config_value
FROM system_config
WHERE config_key = $1;
`
	var value string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts a configuration value.
func (r *ConfigRepositoryPG) Set(ctx context.Context, key, value string) error {
	query := `
INSERT INTO system_config (config_key, config_value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (config_key) DO UPDATE SET config_value = EXCLUDED.config_value, updated_at = NOW();
`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

// GetInt reads a string-encoded integer with a caller-supplied fallback.
// Absent keys and unparseable values both degrade to the fallback.
func (r *ConfigRepositoryPG) GetInt(ctx context.Context, key string, fallback int) int {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

var _ domain.ConfigRepository = (*ConfigRepositoryPG)(nil)
