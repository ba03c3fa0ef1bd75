package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"cadastro/internal/domain/auth"
	"cadastro/internal/platform/config"
)

// Seed ensures the admin login exists so a fresh deployment is usable.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	password := cfg.SeedAdminPassword
	if username == "" || password == "" {
		slog.Warn("seed skipped: SEED_ADMIN_USERNAME or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE username = $1", username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password)
    VALUES ($1, $2)
    ON CONFLICT (username) DO NOTHING
  `, username, hash)
	if err != nil {
		return err
	}

	slog.Info("seeded admin user", "username", username)
	return nil
}
