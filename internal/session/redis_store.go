package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "upload_session:"
	claimKeyPrefix   = "upload_session_claim:"

	// A claim outlives any reasonable finalize; the TTL only guards against
	// a crashed process holding the claim forever.
	claimTTL = 10 * time.Minute
)

// RedisStore backs the session mapping with a shared key-value store so
// multiple API processes can serve chunks for the same session. Record expiry
// is handled by key TTLs rather than the reaper.
type RedisStore struct {
	client     *redis.Client
	ttl        time.Duration
	tempPrefix string
}

func NewRedisStore(config Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttlHours := config.TTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}

	tempPrefix := config.TempPrefix
	if tempPrefix == "" {
		tempPrefix = "uploads/tmp"
	}

	return &RedisStore{
		client:     client,
		ttl:        time.Duration(ttlHours) * time.Hour,
		tempPrefix: tempPrefix,
	}, nil
}

func (s *RedisStore) Create(ctx context.Context, ownerID string) (*UploadSession, error) {
	id := uuid.New().String()

	sess := &UploadSession{
		ID:          id,
		OwnerID:     ownerID,
		ChunkPrefix: fmt.Sprintf("%s/%s", s.tempPrefix, id),
		CreatedAt:   time.Now().Unix(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+id, payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*UploadSession, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &UploadSession{}
	if err := json.Unmarshal(payload, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID string) (bool, error) {
	s.client.Del(ctx, claimKeyPrefix+sessionID)

	deleted, err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}

	return deleted > 0, nil
}

func (s *RedisStore) Claim(ctx context.Context, sessionID string) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	if exists == 0 {
		return false, nil
	}

	return s.client.SetNX(ctx, claimKeyPrefix+sessionID, 1, claimTTL).Result()
}

func (s *RedisStore) Release(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, claimKeyPrefix+sessionID).Err()
}

// Expired returns nothing: redis evicts session records via TTL. Temp chunk
// cleanup for evicted sessions falls to the storage bucket lifecycle policy.
func (s *RedisStore) Expired(ctx context.Context, cutoff time.Time) ([]*UploadSession, error) {
	return nil, nil
}
