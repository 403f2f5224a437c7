package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/marecop/YAweb/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisSessionRepository_Create(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	session := &domain.Session{
		Token:     "tok_123",
		UserID:    "u1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "session:" + session.Token
	if exists := client.Exists(ctx, key).Val(); exists != 1 {
		t.Error("expected session key to exist in Redis")
	}

	// The key TTL tracks the session lifetime.
	ttl := client.TTL(ctx, key).Val()
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected TTL within the hour, got %v", ttl)
	}
}

func TestRedisSessionRepository_FindByToken(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(repo *RedisSessionRepository) string
		expectedError error
	}{
		{
			name: "active session found",
			setupData: func(repo *RedisSessionRepository) string {
				s := &domain.Session{
					Token:     "tok_active",
					UserID:    "u1",
					CreatedAt: time.Now(),
					ExpiresAt: time.Now().Add(time.Hour),
				}
				repo.Create(context.Background(), s)
				return s.Token
			},
			expectedError: nil,
		},
		{
			name: "unknown token",
			setupData: func(repo *RedisSessionRepository) string {
				return "tok_missing"
			},
			expectedError: domain.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestRedis(t)
			repo := NewRedisSessionRepository(client)

			token := tt.setupData(repo)
			session, err := repo.FindByToken(context.Background(), token)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.Token != token {
				t.Errorf("expected token %s, got %s", token, session.Token)
			}
			if session.UserID != "u1" {
				t.Errorf("expected user u1, got %s", session.UserID)
			}
		})
	}
}

func TestRedisSessionRepository_ExpiredSessionEvicted(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	// Plant a payload whose embedded expiry has passed but whose key is
	// still live, as happens when clocks drift or TTL sweeps lag.
	session := &domain.Session{
		Token:     "tok_stale",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	data, _ := json.Marshal(session)
	client.Set(ctx, "session:"+session.Token, data, time.Hour)

	_, err := repo.FindByToken(ctx, session.Token)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	if exists := client.Exists(ctx, "session:"+session.Token).Val(); exists != 0 {
		t.Error("expected stale session key to be evicted")
	}
}

func TestRedisSessionRepository_Delete(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	session := &domain.Session{
		Token:     "tok_del",
		UserID:    "u1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.Create(ctx, session)

	if err := repo.Delete(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.FindByToken(ctx, session.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting again is idempotent.
	if err := repo.Delete(ctx, session.Token); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestRedisSessionRepository_DeleteExpired(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client)

	// Redis owns expiry through key TTLs, so the sweep reports nothing.
	n, err := repo.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}
