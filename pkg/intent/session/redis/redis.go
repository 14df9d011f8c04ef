// Package redis is a Redis-backed session store for multi-instance
// deployments. Contexts are stored as JSON values under a key prefix with an
// idle TTL, so abandoned sessions age out on their own.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

const defaultTTL = 30 * time.Minute

type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type Option func(*Store)

// WithKeyPrefix overrides the default "intentcore:ctx:" prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// WithTTL overrides the idle expiry applied on every save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		keyPrefix: "intentcore:ctx:",
		ttl:       defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *Store) Get(ctx context.Context, sessionID string) (types.ConversationContext, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.ConversationContext{}, nil
	}
	if err != nil {
		return types.ConversationContext{}, fmt.Errorf("getting session context: %w", err)
	}

	var conv types.ConversationContext
	if err := json.Unmarshal(data, &conv); err != nil {
		return types.ConversationContext{}, fmt.Errorf("decoding session context: %w", err)
	}
	return conv, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, conv types.ConversationContext) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encoding session context: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session context: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("deleting session context: %w", err)
	}
	return nil
}
