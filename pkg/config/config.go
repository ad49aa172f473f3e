// Package config loads service settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = "./configs/.env"

var ErrMissingSecret = errors.New("JWT_SECRET must be set")

type Postgres struct {
	Address  string
	Username string
	Password string
	DB       string
	SSLMode  string
	MaxConns int32
	MinConns int32
	ConnLife time.Duration
}

type JWT struct {
	Secret   string
	Issuer   string
	Audience string
}

type OpenAI struct {
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Language string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Log struct {
	Level  string
	Format string
	File   string
}

type Config struct {
	APIAddress         string
	ShutdownTimeout    time.Duration
	Postgres           Postgres
	JWT                JWT
	OpenAI             OpenAI
	Redis              Redis
	AuthRateLimit      int
	AuthRateWindow     time.Duration
	CORSAllowedOrigins []string
	Log                Log
}

// Load reads envFile into the process environment and parses it. A missing
// file is not an error, so plain environment variables keep working.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("env file not loaded, using process environment",
				slog.String("path", envFile),
				slog.String("error", err.Error()),
			)
		}
	}
	return Parse(os.Getenv)
}

func Parse(getenv func(string) string) (*Config, error) {
	e := env{lookup: getenv}
	cfg := &Config{
		APIAddress:      e.str("API_ADDRESS", ":8080"),
		ShutdownTimeout: e.dur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Postgres: Postgres{
			Address:  e.str("POSTGRES_DB_ADDRESS", "localhost:5432"),
			Username: e.str("POSTGRES_USER", "postgres"),
			Password: e.str("POSTGRES_PASSWORD", ""),
			DB:       e.str("POSTGRES_DB", "moodlog"),
			SSLMode:  e.str("POSTGRES_SSLMODE", "disable"),
			MaxConns: int32(e.int("POSTGRES_MAX_CONNS", 10)),
			MinConns: int32(e.int("POSTGRES_MIN_CONNS", 1)),
			ConnLife: e.dur("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
		},
		JWT: JWT{
			Secret:   e.str("JWT_SECRET", ""),
			Issuer:   e.str("JWT_ISSUER", "moodlog"),
			Audience: e.str("JWT_AUDIENCE", "moodlog-clients"),
		},
		OpenAI: OpenAI{
			APIKey:   e.str("OPENAI_API_KEY", ""),
			Model:    e.str("OPENAI_MODEL", "gpt-4.1-mini"),
			BaseURL:  e.str("OPENAI_BASE_URL", ""),
			Timeout:  e.dur("OPENAI_TIMEOUT", 20*time.Second),
			Language: e.str("RECOMMENDATION_LANGUAGE", "French"),
		},
		Redis: Redis{
			Addr:     e.str("REDIS_ADDR", ""),
			Password: e.str("REDIS_PASSWORD", ""),
			DB:       e.int("REDIS_DB", 0),
		},
		AuthRateLimit:      e.int("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:     e.dur("AUTH_RATE_WINDOW", time.Minute),
		CORSAllowedOrigins: e.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Log: Log{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "json"),
			File:   e.str("LOG_FILE", ""),
		},
	}
	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

// ConnString builds a pgx connection URL with the credentials escaped.
func (p Postgres) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     p.Address,
		Path:     "/" + p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

type env struct {
	lookup func(string) string
}

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e.lookup(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	v := strings.TrimSpace(e.lookup(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid int, using default", slog.String("key", key), slog.Int("default", def))
		return def
	}
	return i
}

func (e env) dur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.lookup(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", slog.String("key", key), slog.Duration("default", def))
		return def
	}
	return d
}

func (e env) list(key string, def []string) []string {
	v := strings.TrimSpace(e.lookup(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
