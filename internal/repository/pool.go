package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolLimits struct {
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
}

func NewPool(ctx context.Context, cfg DBConfig, limits PoolLimits) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	if limits.MaxConns > 0 {
		poolCfg.MaxConns = limits.MaxConns
	}
	if limits.MinConns > 0 {
		poolCfg.MinConns = limits.MinConns
	}
	if limits.MaxConnLife > 0 {
		poolCfg.MaxConnLifetime = limits.MaxConnLife
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}
