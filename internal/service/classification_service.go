// Package service binds the classification engine to per-session context
// persistence and the catalog maintenance operations the API exposes.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/pkg/intent/catalog"
	"github.com/tripdesk/intentcore/pkg/intent/classifier"
	"github.com/tripdesk/intentcore/pkg/intent/session"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// recentHistorySize is how many history records GetContextInfo reports.
const recentHistorySize = 3

type ClassificationService struct {
	classifier *classifier.Classifier
	catalog    *catalog.Catalog
	sessions   session.Store
}

type Dependencies struct {
	Classifier *classifier.Classifier
	Catalog    *catalog.Catalog
	Sessions   session.Store
}

func NewClassificationService(deps Dependencies) *ClassificationService {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = session.NoOpStore{}
	}
	return &ClassificationService{
		classifier: deps.Classifier,
		catalog:    deps.Catalog,
		sessions:   sessions,
	}
}

type ClassifyParams struct {
	SessionID string
	Text      string
	Embedding []float32
	Language  string
}

type ClassifyOutput struct {
	SessionID string
	Result    types.Result
}

// Classify loads the session context, runs the engine and saves the updated
// context back. Context saves are last-write-wins; turns of one session are
// expected to arrive serially.
func (s *ClassificationService) Classify(ctx context.Context, params ClassifyParams) (ClassifyOutput, error) {
	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to load session context, classifying without it")
		conv = types.ConversationContext{}
	}

	result, next := s.classifier.Classify(ctx, classifier.Request{
		Text:      params.Text,
		Embedding: params.Embedding,
		Language:  params.Language,
		Context:   conv,
	})

	if err := s.sessions.Save(ctx, sessionID, next); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to save session context")
	}

	return ClassifyOutput{SessionID: sessionID, Result: result}, nil
}

// AddUserExample appends a user-provided example to an intent and embeds it.
func (s *ClassificationService) AddUserExample(ctx context.Context, intent, text string) error {
	return s.catalog.AddExample(ctx, intent, text)
}

// ForceRegenerateEmbeddings recomputes the full example embedding matrix.
func (s *ClassificationService) ForceRegenerateEmbeddings(ctx context.Context) error {
	return s.catalog.ForceRegenerate(ctx)
}

// GetContextInfo reports the active context and recent history of a session.
func (s *ClassificationService) GetContextInfo(ctx context.Context, sessionID string) (types.ContextInfo, error) {
	conv, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return types.ContextInfo{}, err
	}
	return conv.Info(recentHistorySize), nil
}

// ResetContext clears the stored context of a session.
func (s *ClassificationService) ResetContext(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
