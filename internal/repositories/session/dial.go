package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// DefaultDialer picks the backend from the URL scheme
type DefaultDialer struct{}

// NewDialer returns the scheme-dispatching dialer
func NewDialer() *DefaultDialer {
	return &DefaultDialer{}
}

// Dial connects to the remote store named by input.URL. The returned store
// has already answered a ping.
func (d *DefaultDialer) Dial(ctx context.Context, input *DialInput) (Remote, error) {
	if input == nil || input.URL == "" {
		return nil, fmt.Errorf("%w: remote URL cannot be empty", ErrUnsupportedScheme)
	}

	u, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	switch u.Scheme {
	case "redis", "rediss":
		return dialRedis(ctx, input)
	case "postgres", "postgresql":
		return dialPostgres(ctx, input)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

func dialRedis(ctx context.Context, input *DialInput) (Remote, error) {
	opts, err := redis.ParseURL(input.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	if input.Key != "" {
		opts.Password = input.Key
	}
	// Store calls are never retried
	opts.MaxRetries = -1

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", classifyRedis(err))
	}

	repo, err := NewRedis(&RedisConfig{RedisClient: client})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return repo, nil
}

func dialPostgres(ctx context.Context, input *DialInput) (Remote, error) {
	cfg, err := pgxpool.ParseConfig(input.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	if input.Key != "" {
		cfg.ConnConfig.Password = input.Key
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", classifyPostgres(err))
	}

	repo, err := NewPostgres(&PostgresConfig{Pool: pool})
	if err != nil {
		pool.Close()
		return nil, err
	}

	return repo, nil
}

// IsConfiguration reports whether err is a bad-URL failure rather than a
// store failure
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrUnsupportedScheme)
}
