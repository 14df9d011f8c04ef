// Package inmemory is a process-local session store, suitable for tests and
// single-instance deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

type Store struct {
	mu       sync.RWMutex
	contexts map[string]types.ConversationContext
}

func New() *Store {
	return &Store{contexts: make(map[string]types.ConversationContext)}
}

func (s *Store) Get(ctx context.Context, sessionID string) (types.ConversationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[sessionID], nil
}

func (s *Store) Save(ctx context.Context, sessionID string, conv types.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[sessionID] = conv
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, sessionID)
	return nil
}
