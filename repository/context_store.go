package repository

import (
	"context"
	"sync"

	"finplan-agent/domain"
)

// ContextStore persists the per-user conversation context between turns.
// Load returns a fresh empty context on first contact; contexts are never
// deleted by the engine.
type ContextStore interface {
	Load(ctx context.Context, userID string) (*domain.ConversationContext, error)
	Save(ctx context.Context, userID string, conv *domain.ConversationContext) error
}

// ContextStoreMemory keeps contexts in process memory.
type ContextStoreMemory struct {
	mu       sync.Mutex
	contexts map[string]*domain.ConversationContext
}

func NewContextStoreMemory() *ContextStoreMemory {
	return &ContextStoreMemory{contexts: make(map[string]*domain.ConversationContext)}
}

func (s *ContextStoreMemory) Load(_ context.Context, userID string) (*domain.ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.contexts[userID]; ok {
		return conv, nil
	}
	conv := &domain.ConversationContext{}
	s.contexts[userID] = conv
	return conv, nil
}

func (s *ContextStoreMemory) Save(_ context.Context, userID string, conv *domain.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[userID] = conv
	return nil
}
