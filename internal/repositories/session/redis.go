package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/golang/glog"
	"github.com/redis/go-redis/v9"
)

const (
	// Key layout for Redis
	sessionsKey    = "sessions"
	byDateIndexKey = "sessions:by_date"
	schemaKey      = "sessions:schema"

	schemaVersion = "1"
)

// RedisConfig holds configuration for the Redis session repository
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Remote interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetAll reads the date index and resolves each ID from the sessions hash
func (r *redisRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	if err := r.requireSchema(ctx); err != nil {
		return nil, err
	}

	ids, err := r.client.ZRange(ctx, byDateIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session index: %w", classifyRedis(err))
	}

	sessions := make([]*models.Session, 0, len(ids))
	if len(ids) == 0 {
		return &GetAllOutput{Sessions: sessions}, nil
	}

	values, err := r.client.HMGet(ctx, sessionsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", classifyRedis(err))
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a record
			glog.Warningf("session %s is indexed but has no record", ids[i])
			continue
		}

		var s models.Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", ids[i], err)
		}
		sessions = append(sessions, &s)
	}

	// Equal scores come back ordered by member; keep date as the only key
	models.SortByDate(sessions)

	return &GetAllOutput{Sessions: sessions}, nil
}

// Upsert writes the record and its date index entry in one transaction
func (r *redisRepository) Upsert(ctx context.Context, input *UpsertInput) error {
	if err := validateUpsert(input); err != nil {
		return err
	}

	score, err := dateScore(input.Session.Date)
	if err != nil {
		return err
	}

	if err := r.requireSchema(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionsKey, input.Session.ID, raw)
	pipe.ZAdd(ctx, byDateIndexKey, redis.Z{Score: score, Member: input.Session.ID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", input.Session.ID, classifyRedis(err))
	}

	return nil
}

// DeleteByID removes the record and its index entry
func (r *redisRepository) DeleteByID(ctx context.Context, input *DeleteByIDInput) error {
	if err := validateDelete(input); err != nil {
		return err
	}

	if err := r.requireSchema(ctx); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.HDel(ctx, sessionsKey, input.ID)
	pipe.ZRem(ctx, byDateIndexKey, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", input.ID, classifyRedis(err))
	}

	return nil
}

// Probe checks the schema marker and reads at most one index entry
func (r *redisRepository) Probe(ctx context.Context) error {
	if err := r.requireSchema(ctx); err != nil {
		return err
	}

	if err := r.client.ZRange(ctx, byDateIndexKey, 0, 0).Err(); err != nil {
		return fmt.Errorf("failed to probe sessions: %w", classifyRedis(err))
	}

	return nil
}

// Provision writes the schema marker. Existing data is left alone.
func (r *redisRepository) Provision(ctx context.Context) error {
	if err := r.client.Set(ctx, schemaKey, schemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("failed to provision sessions: %w", classifyRedis(err))
	}

	glog.Infof("provisioned redis sessions schema v%s", schemaVersion)
	return nil
}

// Backend returns "redis"
func (r *redisRepository) Backend() string {
	return "redis"
}

// Close closes the client
func (r *redisRepository) Close() error {
	return r.client.Close()
}

func (r *redisRepository) requireSchema(ctx context.Context) error {
	n, err := r.client.Exists(ctx, schemaKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check sessions schema: %w", classifyRedis(err))
	}
	if n == 0 {
		return ErrMissingTable
	}
	return nil
}

// dateScore turns YYYY-MM-DD into the numeric score YYYYMMDD
func dateScore(date string) (float64, error) {
	score, err := strconv.ParseFloat(strings.ReplaceAll(date, "-", ""), 64)
	if err != nil || len(date) != len(models.DateLayout) {
		return 0, fmt.Errorf("invalid session date %q", date)
	}
	return score, nil
}

// classifyRedis tags authentication and ACL failures with ErrPermissionDenied
func classifyRedis(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, prefix := range []string{"WRONGPASS", "NOAUTH", "NOPERM"} {
		if strings.Contains(msg, prefix) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}

	return err
}
