package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkordes/experience-cart/internal/domain"
)

// memoryCartEntryRepo keeps entries in process memory. State is lost on
// restart; it backs STORE_DRIVER=memory and unit tests.
type memoryCartEntryRepo struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
	touched  map[string]time.Time // last write per session
	now      func() time.Time
}

// NewMemoryCartEntryRepo constructs an empty in-memory CartEntryRepo.
func NewMemoryCartEntryRepo() CartEntryRepo {
	return &memoryCartEntryRepo{
		sessions: make(map[string]map[string]string),
		touched:  make(map[string]time.Time),
		now:      time.Now,
	}
}

func (r *memoryCartEntryRepo) Get(_ context.Context, sessionID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.sessions[sessionID][key]
	if !ok {
		return "", fmt.Errorf("repo.MemoryCartEntryRepo.Get: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (r *memoryCartEntryRepo) Set(_ context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, ok := r.sessions[sessionID]
	if !ok {
		entries = make(map[string]string)
		r.sessions[sessionID] = entries
	}
	entries[key] = value
	r.touched[sessionID] = r.now()
	return nil
}

func (r *memoryCartEntryRepo) Clear(_ context.Context, sessionID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions[sessionID], key)
	if len(r.sessions[sessionID]) == 0 {
		r.dropLocked(sessionID)
	}
	return nil
}

func (r *memoryCartEntryRepo) ClearSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(sessionID)
	return nil
}

func (r *memoryCartEntryRepo) PruneStale(_ context.Context, maxAge time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxAge)
	var removed int64
	for id, at := range r.touched {
		if at.Before(cutoff) {
			removed += int64(len(r.sessions[id]))
			r.dropLocked(id)
		}
	}
	return removed, nil
}

func (r *memoryCartEntryRepo) dropLocked(sessionID string) {
	delete(r.sessions, sessionID)
	delete(r.touched, sessionID)
}
