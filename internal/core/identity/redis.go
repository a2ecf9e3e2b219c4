package identity

import (
	"context"
	"fmt"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisResolver looks sessions up in Redis. Sessions are written by the
// auth service as JSON records under session:<token>.
type RedisResolver struct {
	client *redis.Client
}

// NewRedisResolver connects to Redis and verifies the connection.
func NewRedisResolver(cfg *config.RedisConfig) (*RedisResolver, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisResolver{client: client}, nil
}

// Resolve implements Resolver.
func (r *RedisResolver) Resolve(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, common.ErrInvalidSession
	}

	data, err := r.client.Get(ctx, sessionKey(credential)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var id Identity
	if err := common.ParseJSONBytes(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse session record: %w", err)
	}
	if id.UserID == "" {
		return nil, common.ErrInvalidSession
	}
	return &id, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Close releases the Redis connection.
func (r *RedisResolver) Close() error {
	return r.client.Close()
}
