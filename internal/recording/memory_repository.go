package recording

import (
	"sort"
	"sync"
)

// MemoryRepository is a map-backed Repository used by tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	recordings map[string]*Recording
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		recordings: make(map[string]*Recording),
	}
}

func (r *MemoryRepository) Create(rec *Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *rec
	r.recordings[rec.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetByID(id string) (*Recording, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recordings[id]
	if !ok {
		return nil, nil
	}

	copied := *rec
	return &copied, nil
}

func (r *MemoryRepository) GetByOwnerID(ownerID string) ([]*Recording, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recordings []*Recording
	for _, rec := range r.recordings {
		if rec.OwnerID == ownerID {
			copied := *rec
			recordings = append(recordings, &copied)
		}
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].CreatedAt > recordings[j].CreatedAt
	})

	return recordings, nil
}

func (r *MemoryRepository) Rename(id, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.recordings[id]
	if !ok {
		return false, nil
	}

	rec.Name = name
	return true, nil
}

func (r *MemoryRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.recordings[id]
	delete(r.recordings, id)
	return ok, nil
}
