package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marecop/YAweb/domain"
)

// RedisSessionRepository implements domain.SessionRepository using Redis.
// Keys carry a TTL matching the session lifetime, so Redis evicts expired
// sessions on its own.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository creates a session repository backed by Redis.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: "session:",
	}
}

// Create implements domain.SessionRepository.
func (r *RedisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	key := r.prefix + session.Token
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// FindByToken implements domain.SessionRepository.
func (r *RedisSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	key := r.prefix + token
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.Expired(time.Now()) {
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Delete implements domain.SessionRepository.
func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}

// DeleteExpired implements domain.SessionRepository. Redis evicts keys by
// TTL, so there is nothing to sweep here.
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	return 0, nil
}

var _ domain.SessionRepository = (*RedisSessionRepository)(nil)
