package brain

import (
	"context"
	"sync/atomic"
)

// HistoryLoader loads a fresh prepared history
type HistoryLoader interface {
	LoadHistory(ctx context.Context) (*History, error)
}

// HistoryStore holds the current history snapshot. Readers never see a partially
// built history; Refresh swaps the whole pointer.
// ⭐ SSOT: 현재 히스토리 스냅샷은 여기서만 교체
type HistoryStore struct {
	loader  HistoryLoader
	current atomic.Pointer[History]
}

// NewHistoryStore creates an empty store backed by loader
func NewHistoryStore(loader HistoryLoader) *HistoryStore {
	return &HistoryStore{loader: loader}
}

// Current returns the latest snapshot or nil before the first load
func (s *HistoryStore) Current() *History {
	return s.current.Load()
}

// Set replaces the snapshot
func (s *HistoryStore) Set(h *History) {
	s.current.Store(h)
}

// Refresh loads a new history and swaps it in. On error the previous snapshot stays.
func (s *HistoryStore) Refresh(ctx context.Context) (*History, error) {
	h, err := s.loader.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(h)
	return h, nil
}
