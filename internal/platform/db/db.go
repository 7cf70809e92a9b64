package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carepay/internal/platform/config"
)

func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	// Payroll runs are bursty (one calculate fans out per caregiver) but the
	// steady state is near-idle, so the pool stays small and sheds idle conns.
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
