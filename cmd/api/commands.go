package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/limbo/moodlog/internal/api"
	"github.com/limbo/moodlog/internal/repository"
	"github.com/limbo/moodlog/internal/service"
	"github.com/limbo/moodlog/pkg/cleanup"
	"github.com/limbo/moodlog/pkg/config"
	jwtservice "github.com/limbo/moodlog/pkg/jwt_service"
	"github.com/limbo/moodlog/pkg/logger"
	"github.com/limbo/moodlog/pkg/recommender"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(cfg *config.Config) error {
	log, closer, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := repository.Migrate(ctx, cfg.Postgres); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

type ServeCmd struct {
	SkipMigrations bool `help:"Do not apply migrations on startup." name:"skip-migrations"`
}

func (c *ServeCmd) Run(cfg *config.Config) error {
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs := cleanup.New(log)
	defer jobs.Run()

	if !c.SkipMigrations {
		if err := repository.Migrate(ctx, cfg.Postgres); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	pool, err := repository.NewPool(ctx, cfg.Postgres, repository.PoolLimits{
		MaxConns:    cfg.Postgres.MaxConns,
		MinConns:    cfg.Postgres.MinConns,
		MaxConnLife: cfg.Postgres.ConnLife,
	})
	if err != nil {
		return err
	}
	jobs.Register("postgres pool", func() error {
		pool.Close()
		return nil
	})

	jwt, err := jwtservice.New(jwtservice.Options{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	if err != nil {
		return err
	}

	var limiter *api.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		jobs.Register("redis client", rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, auth rate limit fails open", slog.String("error", err.Error()))
		}
		limiter = api.NewRateLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		log.Info("REDIS_ADDR not set, auth rate limit disabled")
	}

	rec := recommender.New(recommender.Config{
		APIKey:   cfg.OpenAI.APIKey,
		Model:    cfg.OpenAI.Model,
		BaseURL:  cfg.OpenAI.BaseURL,
		Language: cfg.OpenAI.Language,
		Timeout:  cfg.OpenAI.Timeout,
	})
	if !rec.Configured() {
		log.Warn("OPENAI_API_KEY not set, recommendations disabled")
	}

	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(repository.NewUsersRepo(pool), log),
		MoodService:        service.NewMoodService(repository.NewMoodsRepo(pool)),
		JwtService:         jwt,
		Recommender:        rec,
		RateLimiter:        limiter,
		Health:             pool,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.APIAddress,
		Handler:           serv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.APIAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	log, closer, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(log)
	return log, func() { _ = closer.Close() }, nil
}
