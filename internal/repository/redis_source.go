package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/models"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
)

const (
	redisLatestKey     = "phdstats:dataset:latest"
	redisVersionPrefix = "phdstats:dataset:v"
)

// RedisSource reads datasets published as JSON blobs in Redis.
type RedisSource struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSource constructs a RedisSource.
func NewRedisSource(client *redis.Client, logger *zap.Logger) *RedisSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSource{client: client, logger: logger}
}

// Name identifies the source in logs and status payloads.
func (s *RedisSource) Name() string { return "redis" }

// VersionKey returns the key holding one dataset version.
func VersionKey(version int) string {
	return redisVersionPrefix + strconv.Itoa(version)
}

// LatestVersion reads the latest pointer key.
func (s *RedisSource) LatestVersion(ctx context.Context) (int, error) {
	raw, err := s.get(ctx, redisLatestKey)
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(string(raw))
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", redisLatestKey, raw)
	}
	return version, nil
}

// Load decodes one dataset version.
func (s *RedisSource) Load(ctx context.Context, version int) ([]models.RawStudent, error) {
	key := VersionKey(version)
	raw, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	var students []models.RawStudent
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return students, nil
}

// Publish stores the version blob and moves the latest pointer in one
// transaction.
func (s *RedisSource) Publish(ctx context.Context, version int, students []models.RawStudent) error {
	if s.client == nil {
		return fmt.Errorf("redis publish: no client configured")
	}
	payload, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("marshal dataset v%d: %w", version, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, VersionKey(version), payload, 0)
		pipe.Set(ctx, redisLatestKey, version, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish v%d: %w", version, err)
	}
	s.logger.Info("dataset published to redis", zap.Int("version", version), zap.Int("records", len(students)))
	return nil
}

func (s *RedisSource) get(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis get %s: %w", key, appErrors.ErrCacheMiss)
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.Debug("redis key missing", zap.String("key", key))
			return nil, fmt.Errorf("redis key %s: %w", key, ErrDatasetNotFound)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}
