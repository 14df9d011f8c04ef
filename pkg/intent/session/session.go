// Package session persists conversation contexts per session on behalf of
// the caller; the classifier itself is stateless. Stores give last-write-wins
// semantics: callers that allow concurrent turns within one session must
// serialize them externally.
package session

import (
	"context"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

type Store interface {
	// Get returns the context for a session; a session never seen before
	// yields the zero context.
	Get(ctx context.Context, sessionID string) (types.ConversationContext, error)

	// Save stores the context for a session.
	Save(ctx context.Context, sessionID string, conv types.ConversationContext) error

	// Delete drops the context for a session.
	Delete(ctx context.Context, sessionID string) error
}

// NoOpStore discards everything; callers using it must thread the context
// themselves.
type NoOpStore struct{}

func (NoOpStore) Get(ctx context.Context, sessionID string) (types.ConversationContext, error) {
	return types.ConversationContext{}, nil
}

func (NoOpStore) Save(ctx context.Context, sessionID string, conv types.ConversationContext) error {
	return nil
}

func (NoOpStore) Delete(ctx context.Context, sessionID string) error {
	return nil
}
