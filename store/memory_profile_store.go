package store

import (
	"context"
	"sync"
	"time"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// MemoryProfileStore is used when no redis address is configured.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[int64]types.Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[int64]types.Profile)}
}

func (s *MemoryProfileStore) GetProfile(_ context.Context, chatID int64) (types.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[chatID]
	if !ok {
		return types.Profile{ChatID: chatID}, nil
	}
	return p, nil
}

func (s *MemoryProfileStore) SaveProfile(_ context.Context, p types.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	s.profiles[p.ChatID] = p
	return nil
}
