package history

import (
	"context"
	"fmt"
	"sort"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore reads history lists maintained by the content service. Each
// user keeps one list per content type, keyed history:<userID>:<type>,
// newest item at the head.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Recent implements Store.
func (s *RedisStore) Recent(ctx context.Context, userID string, contentType common.ContentType, limit int) ([]common.HistoryItem, error) {
	if contentType != "" {
		return s.readList(ctx, historyKey(userID, contentType), limit)
	}

	// No pinned type: merge the per-type lists and keep the newest items
	// overall.
	var merged []common.HistoryItem
	for _, ct := range []common.ContentType{common.ContentTypeMovie, common.ContentTypeBook, common.ContentTypeBlog} {
		items, err := s.readList(ctx, historyKey(userID, ct), limit)
		if err != nil {
			return nil, err
		}
		merged = append(merged, items...)
	}
	return newestFirst(merged, limit), nil
}

// newestFirst orders items by date descending and trims to limit. Dates
// are ISO formatted so lexicographic comparison matches chronology.
func newestFirst(items []common.HistoryItem, limit int) []common.HistoryItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *RedisStore) readList(ctx context.Context, key string, limit int) ([]common.HistoryItem, error) {
	raw, err := s.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history list %s: %w", key, err)
	}

	items := make([]common.HistoryItem, 0, len(raw))
	for _, entry := range raw {
		var item common.HistoryItem
		if err := common.ParseJSON(entry, &item); err != nil {
			// A malformed record should not sink the whole read.
			common.LogWarn("skipping malformed history record",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func historyKey(userID string, contentType common.ContentType) string {
	return fmt.Sprintf("history:%s:%s", userID, contentType)
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
