package classifier

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/intentcore/pkg/intent/catalog"
	"github.com/tripdesk/intentcore/pkg/intent/embedding"
	"github.com/tripdesk/intentcore/pkg/intent/hierarchy"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// stubProvider returns fixed vectors per text. Unknown texts get a constant
// vector, the provider's soft-failure signal.
type stubProvider struct {
	vectors map[string][]float32
	err     error
}

func (p *stubProvider) Embed(ctx context.Context, text, language string) ([]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	if vec, ok := p.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0.5, 0.5, 0.5, 0.5}, nil
}

func (p *stubProvider) EmbedBatch(ctx context.Context, texts []string, language string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Embed(ctx, text, language)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Each intent gets a single orthogonal example vector, so a unit query
// scores exactly its first component on hotel, its second on restaurant and
// its third on flight. The fourth axis carries the query slack and matches
// no intent.
var exampleVectors = map[string][]float32{
	"book a hotel":      {1, 0, 0, 0},
	"find a restaurant": {0, 1, 0, 0},
	"book a flight":     {0, 0, 1, 0},
}

// unitQuery builds a unit-length vector with the given hotel and restaurant
// components.
func unitQuery(hotel, restaurant float64) []float32 {
	rest := 1 - hotel*hotel - restaurant*restaurant
	if rest < 0 {
		panic("not a unit vector")
	}
	return []float32{float32(hotel), float32(restaurant), 0, float32(math.Sqrt(rest))}
}

const testHierarchyDoc = `
intent_hierarchy:
  accommodation:
    intents: [hotel_query]
    priority: 1
    context_sensitive: true
  dining:
    intents: [restaurant_query]
    priority: 1
    context_sensitive: true
  transport:
    intents: [flight_query]
    priority: 2
    context_sensitive: false

context_rules:
  hotel_planning:
    triggers: [hotel_query]
    boosts:
      restaurant_query: 0.05
    duration: 3

disambiguation_rules:
  hotel_vs_restaurant:
    primary_intent: hotel_query
    secondary_intent: restaurant_query
    condition: "similarity_difference < 0.1"
    resolution: keyword_based
    keywords:
      hotel_indicators: [hotel, room]
      restaurant_indicators: [restaurant, eat, place]

confidence_thresholds:
  min_confidence: 0.6
`

func newTestClassifier(t *testing.T, provider embedding.Provider) *Classifier {
	t.Helper()

	defs := []types.IntentDefinition{
		{Name: "hotel_query", Examples: []string{"book a hotel"}},
		{Name: "restaurant_query", Examples: []string{"find a restaurant"}},
		{Name: "flight_query", Examples: []string{"book a flight"}},
	}
	cat := catalog.New(defs, provider, catalog.WithRetryPolicy(embedding.RetryPolicy{MaxAttempts: 1, Sleep: func(time.Duration) {}}))
	require.NoError(t, cat.EnsureAll(context.Background()))

	cfg, err := hierarchy.Parse([]byte(testHierarchyDoc))
	require.NoError(t, err)

	c, err := New(
		WithCatalog(cat),
		WithHierarchy(cfg),
		WithProvider(provider),
	)
	require.NoError(t, err)
	return c
}

func testProvider() *stubProvider {
	return &stubProvider{vectors: exampleVectors}
}

func TestNew_Validation(t *testing.T) {
	_, err := New()
	assert.EqualError(t, err, "catalog is required")

	cat := catalog.New(nil, testProvider())
	_, err = New(WithCatalog(cat))
	assert.EqualError(t, err, "embedding provider is required")
}

func TestClassify_EmptyInputIsGreeting(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	for _, text := range []string{"", "   ", "\n\t"} {
		result, _ := c.Classify(context.Background(), Request{Text: text})
		assert.Equal(t, types.IntentGreeting, result.Intent)
		assert.Equal(t, 1.0, result.Confidence)
		assert.False(t, result.NeedsDisambiguation)
	}
}

func TestClassify_ProviderErrorFallsBack(t *testing.T) {
	provider := testProvider()
	provider.err = errors.New("provider down")
	c := newTestClassifier(t, testProvider())
	c.provider = provider

	result, _ := c.Classify(context.Background(), Request{Text: "book a hotel"})
	assert.Equal(t, types.IntentGeneralQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
	assert.False(t, result.NeedsDisambiguation)
}

func TestClassify_DegenerateEmbeddingFallsBack(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	// Unknown texts get the stub's constant vector.
	result, _ := c.Classify(context.Background(), Request{Text: "complete gibberish"})
	assert.Equal(t, types.IntentGeneralQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_EmptyCatalogFallsBack(t *testing.T) {
	provider := testProvider()
	cat := catalog.New(nil, provider)
	c, err := New(WithCatalog(cat), WithProvider(provider))
	require.NoError(t, err)

	result, _ := c.Classify(context.Background(), Request{Text: "book a hotel"})
	assert.Equal(t, types.IntentGeneralQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_ClearWinner(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	result, _ := c.Classify(context.Background(), Request{Text: "book a hotel"})
	assert.Equal(t, "hotel_query", result.Intent)
	assert.InDelta(t, 1.0, result.Confidence, 1e-6)
	assert.Equal(t, "accommodation", result.Domain)
	assert.False(t, result.NeedsDisambiguation)
	assert.Empty(t, result.DisambiguationApplied)
}

func TestClassify_TopIntentsDescending(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	result, _ := c.Classify(context.Background(), Request{
		Text:      "somewhere to stay and eat",
		Embedding: []float32{0.8, 0.5, 0.3, 0},
	})

	require.NotEmpty(t, result.TopIntents)
	assert.LessOrEqual(t, len(result.TopIntents), 3)
	for i := 1; i < len(result.TopIntents); i++ {
		assert.GreaterOrEqual(t, result.TopIntents[i-1].Score, result.TopIntents[i].Score)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	req := Request{Text: "a place for the night", Embedding: unitQuery(0.9, 0.3)}
	first, _ := c.Classify(context.Background(), req)
	second, _ := c.Classify(context.Background(), req)

	assert.Equal(t, first, second)
}

func TestClassify_NearMissRequestsDisambiguation(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	// Top score in (0.48, 0.6): below the floor but close enough to ask.
	result, _ := c.Classify(context.Background(), Request{
		Text:      "hmm",
		Embedding: unitQuery(0.55, 0.50),
	})

	assert.Equal(t, types.IntentDisambiguationRequired, result.Intent)
	assert.True(t, result.NeedsDisambiguation)
	require.NotEmpty(t, result.TopIntents)
	assert.Equal(t, "hotel_query", result.TopIntents[0].Intent, "original top candidate is preserved")
}

func TestClassify_FarBelowThresholdFallsBack(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	result, _ := c.Classify(context.Background(), Request{
		Text:      "hmm",
		Embedding: unitQuery(0.30, 0.20),
	})

	assert.Equal(t, types.IntentGeneralQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
	assert.False(t, result.NeedsDisambiguation)
}

func TestClassify_DisambiguationEndToEnd(t *testing.T) {
	provider := testProvider()
	// Near-tied: hotel 0.72, restaurant 0.67, gap 0.05 < 0.1.
	provider.vectors["I need a place to eat near my hotel"] = unitQuery(0.72, 0.67)
	c := newTestClassifier(t, provider)

	result, _ := c.Classify(context.Background(), Request{Text: "I need a place to eat near my hotel"})

	// Keyword counts favor restaurant: "eat" and "place" vs "hotel".
	assert.Equal(t, "restaurant_query", result.Intent)
	assert.Equal(t, "hotel_vs_restaurant", result.DisambiguationApplied)
	assert.Equal(t, "hotel_query", result.OriginalIntent)
	assert.Equal(t, "dining", result.Domain)
	assert.InDelta(t, 0.67, result.Confidence, 1e-3, "confidence rewritten to the resolved candidate's score")
}

func TestClassify_DisambiguationGapBoundary(t *testing.T) {
	tests := []struct {
		name      string
		query     []float32
		wantFired bool
	}{
		{name: "gap 0.05 fires", query: unitQuery(0.72, 0.67), wantFired: true},
		{name: "gap 0.15 does not fire", query: unitQuery(0.75, 0.60), wantFired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, testProvider())

			result, _ := c.Classify(context.Background(), Request{
				Text:      "just looking around the hotel",
				Embedding: tt.query,
			})

			if tt.wantFired {
				assert.Equal(t, "hotel_vs_restaurant", result.DisambiguationApplied)
				assert.Equal(t, "hotel_query", result.OriginalIntent)
			} else {
				assert.Empty(t, result.DisambiguationApplied)
				assert.Empty(t, result.OriginalIntent)
				assert.Equal(t, "hotel_query", result.Intent)
			}
		})
	}
}

func TestClassify_ContextLifecycle(t *testing.T) {
	c := newTestClassifier(t, testProvider())
	ctx := context.Background()

	// Turn 1: hotel_query triggers hotel_planning (duration 3).
	_, conv := c.Classify(ctx, Request{Text: "book a hotel"})
	assert.Equal(t, "hotel_planning", conv.ActiveContext)
	assert.Equal(t, 1, conv.ContextTurns)
	assert.Equal(t, 3, conv.MaxDuration)

	// Turn 2: non-trigger intent, the context keeps counting.
	_, conv = c.Classify(ctx, Request{Text: "find a restaurant", Context: conv})
	assert.Equal(t, "hotel_planning", conv.ActiveContext, "still active at max_duration-1")
	assert.Equal(t, 2, conv.ContextTurns)

	// Turn 3: hits max_duration, context expires.
	_, conv = c.Classify(ctx, Request{Text: "find a restaurant", Context: conv})
	assert.Empty(t, conv.ActiveContext)
	assert.Equal(t, 0, conv.ContextTurns)

	assert.Len(t, conv.History, 3, "every turn lands in the rolling history")
	assert.Equal(t, "hotel_query", conv.History[0].Intent)
}

func TestClassify_TriggerReactivatesContext(t *testing.T) {
	c := newTestClassifier(t, testProvider())
	ctx := context.Background()

	_, conv := c.Classify(ctx, Request{Text: "book a hotel"})
	_, conv = c.Classify(ctx, Request{Text: "find a restaurant", Context: conv})
	require.Equal(t, 2, conv.ContextTurns)

	// The trigger intent resets the clock.
	_, conv = c.Classify(ctx, Request{Text: "book a hotel", Context: conv})
	assert.Equal(t, "hotel_planning", conv.ActiveContext)
	assert.Equal(t, 1, conv.ContextTurns)
}

func TestClassify_ContextBoostIsAdditive(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	var conv types.ConversationContext
	conv.Activate("hotel_planning", 3)

	// Without the boost restaurant scores 0.62; the active context adds 0.05.
	result, _ := c.Classify(context.Background(), Request{
		Text:      "anything good nearby",
		Embedding: unitQuery(0.2, 0.62),
		Context:   conv,
	})

	assert.Equal(t, "restaurant_query", result.Intent)
	assert.InDelta(t, 0.67, result.Confidence, 1e-3)
}

func TestClassify_ContextUnchangedOnFallback(t *testing.T) {
	c := newTestClassifier(t, testProvider())

	var conv types.ConversationContext
	conv.Activate("hotel_planning", 3)
	conv.ContextTurns = 1

	_, next := c.Classify(context.Background(), Request{Text: "complete gibberish", Context: conv})
	assert.Equal(t, conv, next, "fallback paths do not consume a context turn")
}
