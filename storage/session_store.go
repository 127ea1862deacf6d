package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"rental-market/models"
)

const sessionKeyPrefix = "rental:session:"

// RedisSessionStore keeps sessions in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisSessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("sessions: connect to redis: %w", err)
	}
	return NewRedisSessionStoreFromClient(rdb, ttl), nil
}

// NewRedisSessionStoreFromClient wraps an existing client.
func NewRedisSessionStoreFromClient(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Save stores sess under a fresh token and returns the stored copy.
func (s *RedisSessionStore) Save(ctx context.Context, sess *models.Session) (*models.Session, error) {
	if sess == nil {
		return nil, errors.New("sessions: nil session")
	}

	stored := *sess
	stored.Token = uuid.NewString()
	stored.ExpiresAt = s.now().Add(s.ttl).UTC()

	payload, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("sessions: encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(stored.Token), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("sessions: save: %w", err)
	}
	return &stored, nil
}

// Load returns the session for token, or ErrSessionNotFound.
func (s *RedisSessionStore) Load(ctx context.Context, token string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: load: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("sessions: decode: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("sessions: delete: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
