package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Storage keys shared between the search and results views. Each successful
// search overwrites all four; results are never merged or appended.
const (
	ResultKey    = "godeyeResults"
	QueryKey     = "lastQuery"
	QueryTypeKey = "lastQueryType"
	TimestampKey = "lastSearchTimestamp"
)

var (
	ErrNoStoredResult = errors.New("no stored analysis result")
	ErrStorageWrite   = errors.New("failed to persist to result store")
)

// QueryMeta is the fallback display metadata saved alongside each search.
type QueryMeta struct {
	Query     string
	Type      string
	Timestamp string
}

// Store is the persistence contract between the two views.
type Store interface {
	SaveResult(ctx context.Context, result *models.AnalysisResult) error
	LoadRawResult(ctx context.Context) ([]byte, error)
	SaveQueryMeta(ctx context.Context, meta QueryMeta) error
	LoadQueryMeta(ctx context.Context) (QueryMeta, error)
	Clear(ctx context.Context) error
}

// RedisStore implements Store on a redis client.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

// SaveResult overwrites the stored payload with the new result.
func (s *RedisStore) SaveResult(ctx context.Context, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	if err := s.client.Set(ctx, ResultKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.logger.WithField("size", len(data)).Debug("Analysis result persisted")
	return nil
}

// LoadRawResult returns the stored payload bytes verbatim, so JSON export can
// serialize exactly what was saved.
func (s *RedisStore) LoadRawResult(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, ResultKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoStoredResult
		}
		return nil, fmt.Errorf("failed to read result store: %w", err)
	}
	return data, nil
}

func (s *RedisStore) SaveQueryMeta(ctx context.Context, meta QueryMeta) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, QueryKey, meta.Query, 0)
	pipe.Set(ctx, QueryTypeKey, meta.Type, 0)
	pipe.Set(ctx, TimestampKey, meta.Timestamp, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// LoadQueryMeta returns whatever metadata exists; missing keys come back as
// empty strings rather than errors since this is fallback display data only.
func (s *RedisStore) LoadQueryMeta(ctx context.Context) (QueryMeta, error) {
	var meta QueryMeta

	values, err := s.client.MGet(ctx, QueryKey, QueryTypeKey, TimestampKey).Result()
	if err != nil {
		return meta, fmt.Errorf("failed to read query metadata: %w", err)
	}

	if v, ok := values[0].(string); ok {
		meta.Query = v
	}
	if v, ok := values[1].(string); ok {
		meta.Type = v
	}
	if v, ok := values[2].(string); ok {
		meta.Timestamp = v
	}

	return meta, nil
}

// Clear removes the stored result and its metadata.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, ResultKey, QueryKey, QueryTypeKey, TimestampKey).Err()
}
