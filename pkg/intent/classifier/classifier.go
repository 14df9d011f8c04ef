// Package classifier is the classification orchestrator: embed the
// utterance, score every intent, rank, check confidence, disambiguate
// near-ties and update the conversation context.
package classifier

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/pkg/intent/catalog"
	"github.com/tripdesk/intentcore/pkg/intent/embedding"
	"github.com/tripdesk/intentcore/pkg/intent/hierarchy"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// nearMissFactor widens the confidence floor for the "close but not
// confident" band that asks the user to disambiguate instead of falling back.
const nearMissFactor = 0.8

// maxTopIntents bounds how many candidates a result carries.
const maxTopIntents = 3

// Classifier maps utterances to catalog intents. It holds no per-session
// state: the conversation context is an explicit value passed in and
// returned, and the caller persists it per session.
type Classifier struct {
	catalog  *catalog.Catalog
	resolver *hierarchy.Resolver
	provider embedding.Provider

	minConfidence float64
	language      string
}

// Request is one classification input. Embedding, Language and Context are
// optional; a supplied Embedding skips the provider call.
type Request struct {
	Text      string
	Embedding []float32
	Language  string
	Context   types.ConversationContext
}

// New builds a classifier. Catalog and provider are required; without a
// hierarchy config the classifier runs with no domains and no rules.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{language: "en"}
	for _, opt := range opts {
		opt(c)
	}

	if c.catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if c.provider == nil {
		return nil, errors.New("embedding provider is required")
	}
	if c.resolver == nil {
		c.resolver = hierarchy.NewResolver(nil)
	}
	if c.minConfidence <= 0 {
		c.minConfidence = c.resolver.MinConfidence()
	}
	return c, nil
}

// Classify runs one utterance through the full pipeline and returns the
// result together with the updated conversation context. It never fails:
// provider errors, degenerate vectors, empty catalogs and low-confidence
// outcomes all resolve to sentinel results, because the chat layer upstream
// must always receive an answer.
func (c *Classifier) Classify(ctx context.Context, req Request) (types.Result, types.ConversationContext) {
	conv := req.Context

	// Empty utterances are conversation openers, not failures.
	if strings.TrimSpace(req.Text) == "" && len(req.Embedding) == 0 {
		return types.Result{Intent: types.IntentGreeting, Confidence: 1.0}, conv
	}

	query := req.Embedding
	if len(query) == 0 {
		language := req.Language
		if language == "" {
			language = c.language
		}
		var err error
		query, err = c.provider.Embed(ctx, req.Text, language)
		if err != nil {
			log.Warn().Err(err).Msg("Embedding failed, returning fallback intent")
			return c.fallback(), conv
		}
	}
	if embedding.IsDegenerate(query) {
		log.Warn().Msg("Degenerate embedding from provider, returning fallback intent")
		return c.fallback(), conv
	}

	scores := scoreIntents(query, c.catalog.ReadyVectors(), c.activeBoosts(conv))
	if len(scores) == 0 {
		return c.fallback(), conv
	}

	ranked := rank(scores)
	if len(ranked) > maxTopIntents {
		ranked = ranked[:maxTopIntents]
	}
	top := ranked[0]

	gap := 0.0
	if len(ranked) > 1 {
		gap = top.Score - ranked[1].Score
	}

	if top.Score < c.minConfidence {
		if top.Score > nearMissFactor*c.minConfidence && len(ranked) > 1 {
			return types.Result{
				Intent:              types.IntentDisambiguationRequired,
				Confidence:          top.Score,
				ConfidenceDiff:      gap,
				TopIntents:          ranked,
				NeedsDisambiguation: true,
			}, conv
		}
		return c.fallback(), conv
	}

	result := types.Result{
		Intent:         top.Intent,
		Confidence:     top.Score,
		ConfidenceDiff: gap,
		TopIntents:     ranked,
		Domain:         c.resolver.DomainOf(top.Intent),
	}

	c.disambiguate(&result, req.Text)
	conv = c.updateContext(conv, result)

	return result, conv
}

// fallback is the terminal state for everything the engine cannot answer.
func (c *Classifier) fallback() types.Result {
	return types.Result{
		Intent:     types.IntentGeneralQuery,
		Confidence: 0.5,
	}
}

// activeBoosts returns the boost table of the active context rule, if any.
func (c *Classifier) activeBoosts(conv types.ConversationContext) map[string]float64 {
	if conv.ActiveContext == "" {
		return nil
	}
	rule, ok := c.resolver.ContextRule(conv.ActiveContext)
	if !ok {
		return nil
	}
	return rule.Boosts
}

// updateContext applies the post-classification context transition: activate
// a context when the winning intent triggers one, count the turn, expire the
// context once it has run its configured duration, and record the turn in the
// bounded history.
func (c *Classifier) updateContext(conv types.ConversationContext, result types.Result) types.ConversationContext {
	if rule, ok := c.resolver.ContextRuleForTrigger(result.Intent); ok {
		conv.Activate(rule.Name, rule.Duration)
	}

	if conv.ActiveContext != "" {
		conv.ContextTurns++
		if conv.ContextTurns >= conv.MaxDuration {
			conv.Clear()
		}
	}

	conv.PushHistory(types.HistoryRecord{
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Domain:     result.Domain,
	})

	return conv
}
