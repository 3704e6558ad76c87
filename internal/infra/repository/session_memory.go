package repository

import (
	"context"
	"sync"

	repo "storefront/internal/repository"
)

// SessionMemoryRepository はプロセス内のセッションストレージ（既定）。
type SessionMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewSessionMemoryRepository() *SessionMemoryRepository {
	return &SessionMemoryRepository{data: map[string]map[string]string{}}
}

func (r *SessionMemoryRepository) Scope(sessionID string) repo.SessionStorage {
	return &sessionMemoryScope{r: r, sessionID: sessionID}
}

func (r *SessionMemoryRepository) Drop(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, sessionID)
	return nil
}

// Len は保持しているセッション数
func (r *SessionMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

type sessionMemoryScope struct {
	r         *SessionMemoryRepository
	sessionID string
}

func (s *sessionMemoryScope) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.r.mu.RLock()
	defer s.r.mu.RUnlock()
	v, ok := s.r.data[s.sessionID][key]
	return v, ok, nil
}

func (s *sessionMemoryScope) SetItem(ctx context.Context, key string, value string) error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	m, ok := s.r.data[s.sessionID]
	if !ok {
		m = map[string]string{}
		s.r.data[s.sessionID] = m
	}
	m[key] = value
	return nil
}

func (s *sessionMemoryScope) RemoveItem(ctx context.Context, key string) error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	delete(s.r.data[s.sessionID], key)
	return nil
}
