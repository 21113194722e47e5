package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"finplan-agent/domain"
)

// ContextStoreRedis serializes conversation contexts to redis so multiple
// instances can share them. Expiry is left to the operator (no TTL here);
// the engine never deletes a context.
type ContextStoreRedis struct {
	client *redis.Client
}

func NewContextStoreRedis(client *redis.Client) *ContextStoreRedis {
	return &ContextStoreRedis{client: client}
}

func contextKey(userID string) string { return "conversation:" + userID }

func (s *ContextStoreRedis) Load(ctx context.Context, userID string) (*domain.ConversationContext, error) {
	raw, err := s.client.Get(ctx, contextKey(userID)).Result()
	if err == redis.Nil {
		return &domain.ConversationContext{}, nil
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.CodeUpstream, "loading conversation context")
	}
	var conv domain.ConversationContext
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, domain.WrapError(err, domain.CodeUpstream, "decoding conversation context")
	}
	return &conv, nil
}

func (s *ContextStoreRedis) Save(ctx context.Context, userID string, conv *domain.ConversationContext) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return domain.WrapError(err, domain.CodeUpstream, "encoding conversation context")
	}
	return s.client.Set(ctx, contextKey(userID), raw, 0).Err()
}
