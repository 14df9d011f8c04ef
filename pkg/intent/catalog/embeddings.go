package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// EnsureEmbeddings computes and caches the embedding matrix for one intent's
// examples, batching through the provider. It is a no-op when the matrix is
// already complete. On exhausting retries the intent is marked incomplete and
// stays out of scoring until a later regeneration succeeds.
func (c *Catalog) EnsureEmbeddings(ctx context.Context, name string) error {
	c.mu.RLock()
	def, ok := c.defs[name]
	if !ok {
		c.mu.RUnlock()
		return fmt.Errorf("%w: %q", types.ErrIntentNotFound, name)
	}
	examples := append([]string(nil), def.Examples...)
	done := !c.incomplete[name] && len(c.vectors[name]) == len(examples)
	c.mu.RUnlock()

	if done || len(examples) == 0 {
		return nil
	}

	var vectors [][]float32
	err := c.retry.Do(ctx, func() error {
		var embedErr error
		vectors, embedErr = c.provider.EmbedBatch(ctx, examples, c.language)
		return embedErr
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.incomplete[name] = true
		return fmt.Errorf("%w: intent %q: %v", types.ErrEmbeddingUnavailable, name, err)
	}
	c.vectors[name] = vectors
	delete(c.incomplete, name)
	return nil
}

// EnsureAll warms the embedding cache for every intent. Per-intent failures
// are logged and counted, not fatal; degraded intents simply stay out of
// scoring.
func (c *Catalog) EnsureAll(ctx context.Context) error {
	var failed int
	names := c.Names()
	for _, name := range names {
		if err := c.EnsureEmbeddings(ctx, name); err != nil {
			log.Warn().Err(err).Str("intent", name).Msg("Embedding generation failed, intent excluded from scoring")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d intents incomplete", types.ErrEmbeddingUnavailable, failed, len(names))
	}
	return nil
}

// ForceRegenerate drops every cached vector and recomputes the full matrix.
func (c *Catalog) ForceRegenerate(ctx context.Context) error {
	c.mu.Lock()
	c.vectors = make(map[string][][]float32)
	c.incomplete = make(map[string]bool)
	c.mu.Unlock()

	return c.EnsureAll(ctx)
}

// Ready reports whether an intent has a complete embedding matrix and at
// least one example.
func (c *Catalog) Ready(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready(name)
}

func (c *Catalog) ready(name string) bool {
	def, ok := c.defs[name]
	if !ok || len(def.Examples) == 0 || c.incomplete[name] {
		return false
	}
	return len(c.vectors[name]) == len(def.Examples)
}

// ReadyVectors returns the embedding matrices of every fully-embedded intent,
// keyed by intent name. The returned matrices are shared read-only snapshots.
func (c *Catalog) ReadyVectors() map[string][][]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][][]float32, len(c.vectors))
	for _, name := range c.order {
		if c.ready(name) {
			out[name] = c.vectors[name]
		}
	}
	return out
}
