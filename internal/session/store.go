package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the session-id → session mapping. It is the one piece of shared
// mutable state in the upload path; implementations must be safe under
// concurrent access from in-flight requests.
//
// Get returns (nil, nil) for an absent session so callers can collapse
// not-found and malformed-id into one client-visible failure.
type Store interface {
	Create(ctx context.Context, ownerID string) (*UploadSession, error)
	Get(ctx context.Context, sessionID string) (*UploadSession, error)
	Remove(ctx context.Context, sessionID string) (bool, error)

	// Claim marks a session as being finalized. It returns false if the
	// session is absent or already claimed, which serializes concurrent
	// finalize attempts on the same session.
	Claim(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error

	// Expired returns sessions created before the cutoff, for the reaper.
	Expired(ctx context.Context, cutoff time.Time) ([]*UploadSession, error)
}

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

type Config struct {
	Store             StoreType `mapstructure:"store"`
	RedisAddr         string    `mapstructure:"redis_addr"`
	RedisPassword     string    `mapstructure:"redis_password"`
	TTLHours          int       `mapstructure:"ttl_hours"`
	ReapIntervalMins  int       `mapstructure:"reap_interval_minutes"`
	TempPrefix        string    `mapstructure:"temp_prefix"`
}

func NewStore(config Config) (Store, error) {
	switch config.Store {
	case StoreTypeRedis:
		return NewRedisStore(config)
	case StoreTypeMemory, "":
		return NewMemoryStore(config.TempPrefix), nil
	default:
		return nil, fmt.Errorf("unknown session store type: %s", config.Store)
	}
}

type memoryEntry struct {
	session *UploadSession
	claimed bool
}

// MemoryStore is the single-process store: a mutex-guarded map.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*memoryEntry
	tempPrefix string
}

func NewMemoryStore(tempPrefix string) *MemoryStore {
	if tempPrefix == "" {
		tempPrefix = "uploads/tmp"
	}
	return &MemoryStore{
		sessions:   make(map[string]*memoryEntry),
		tempPrefix: tempPrefix,
	}
}

func (s *MemoryStore) Create(ctx context.Context, ownerID string) (*UploadSession, error) {
	// The id doubles as the chunk prefix, so the storage location is unique
	// per session and never reused.
	id := uuid.New().String()

	sess := &UploadSession{
		ID:          id,
		OwnerID:     ownerID,
		ChunkPrefix: fmt.Sprintf("%s/%s", s.tempPrefix, id),
		CreatedAt:   time.Now().Unix(),
	}

	s.mu.Lock()
	s.sessions[id] = &memoryEntry{session: sess}
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	copied := *entry.session
	return &copied, nil
}

func (s *MemoryStore) Remove(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok, nil
}

func (s *MemoryStore) Claim(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.claimed {
		return false, nil
	}

	entry.claimed = true
	return true, nil
}

func (s *MemoryStore) Release(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[sessionID]; ok {
		entry.claimed = false
	}
	return nil
}

func (s *MemoryStore) Expired(ctx context.Context, cutoff time.Time) ([]*UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []*UploadSession
	for _, entry := range s.sessions {
		if entry.claimed {
			continue
		}
		if entry.session.CreatedAt < cutoff.Unix() {
			copied := *entry.session
			expired = append(expired, &copied)
		}
	}

	return expired, nil
}
