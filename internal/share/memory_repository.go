package share

import (
	"sort"
	"sync"
)

// MemoryRepository is a map-backed Repository used by tests. Increments and
// revokes happen under the lock, matching the atomicity the SQL repository
// gets from single-statement updates.
type MemoryRepository struct {
	mu      sync.Mutex
	shares  map[string]*Share
	byToken map[string]string
	seqs    map[string]int64
	nextSeq int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shares:  make(map[string]*Share),
		byToken: make(map[string]string),
		seqs:    make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(s *Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *s
	r.shares[s.ID] = &copied
	r.byToken[s.Token] = s.ID
	r.nextSeq++
	r.seqs[s.ID] = r.nextSeq
	return nil
}

func (r *MemoryRepository) GetByID(id string) (*Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.copyOf(id), nil
}

func (r *MemoryRepository) GetByToken(token string) (*Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	return r.copyOf(id), nil
}

func (r *MemoryRepository) GetByRecordingID(recordingID string) ([]*Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shares []*Share
	for _, s := range r.shares {
		if s.RecordingID == recordingID {
			copied := *s
			shares = append(shares, &copied)
		}
	}

	sort.Slice(shares, func(i, j int) bool {
		return r.seqs[shares[i].ID] < r.seqs[shares[j].ID]
	})

	return shares, nil
}

func (r *MemoryRepository) Revoke(shareID, recordingID string, revokedAt int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[shareID]
	if !ok || s.RecordingID != recordingID || s.RevokedAt != nil {
		return false, nil
	}

	s.RevokedAt = &revokedAt
	return true, nil
}

func (r *MemoryRepository) IncrementViewCount(shareID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.shares[shareID]; ok {
		s.ViewCount++
	}
	return nil
}

func (r *MemoryRepository) copyOf(id string) *Share {
	s, ok := r.shares[id]
	if !ok {
		return nil
	}
	copied := *s
	return &copied
}
