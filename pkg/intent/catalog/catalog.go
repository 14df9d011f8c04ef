// Package catalog loads the declarative intent catalog and maintains the
// cached embedding matrix for every intent's canonical examples.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tripdesk/intentcore/pkg/intent/embedding"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// Catalog holds the loaded intent definitions and their example embeddings.
// Intents whose embeddings could not be (fully) computed are excluded from
// scoring until a later regeneration succeeds.
type Catalog struct {
	provider embedding.Provider
	retry    embedding.RetryPolicy
	language string

	mu         sync.RWMutex
	defs       map[string]*types.IntentDefinition
	order      []string
	vectors    map[string][][]float32
	incomplete map[string]bool
}

type Option func(*Catalog)

// WithRetryPolicy overrides the embedding retry policy.
func WithRetryPolicy(policy embedding.RetryPolicy) Option {
	return func(c *Catalog) {
		c.retry = policy
	}
}

// WithLanguage sets the language hint passed to the embedding provider for
// canonical examples.
func WithLanguage(language string) Option {
	return func(c *Catalog) {
		c.language = language
	}
}

// New builds a catalog from already-parsed definitions.
func New(defs []types.IntentDefinition, provider embedding.Provider, opts ...Option) *Catalog {
	c := &Catalog{
		provider:   provider,
		retry:      embedding.DefaultRetryPolicy(),
		language:   "en",
		defs:       make(map[string]*types.IntentDefinition, len(defs)),
		vectors:    make(map[string][][]float32),
		incomplete: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range defs {
		def := defs[i]
		if _, exists := c.defs[def.Name]; exists {
			log.Warn().Str("intent", def.Name).Msg("Duplicate intent definition, keeping first")
			continue
		}
		c.defs[def.Name] = &def
		c.order = append(c.order, def.Name)
	}
	return c
}

// Load reads and parses the catalog document at path. Missing or malformed
// documents and documents with zero intents fail with types.ErrConfigInvalid.
func Load(path string, provider embedding.Provider, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog %s: %v", types.ErrConfigInvalid, path, err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(defs, provider, opts...), nil
}

// LoadOrEmpty is Load with degraded-mode recovery: on any config error it
// logs a warning and returns an empty catalog, so the orchestrator can still
// answer with its generic fallback.
func LoadOrEmpty(path string, provider embedding.Provider, opts ...Option) *Catalog {
	c, err := Load(path, provider, opts...)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Intent catalog unavailable, running with empty catalog")
		return New(nil, provider, opts...)
	}
	return c
}

type catalogDocument struct {
	Intents yaml.Node `yaml:"intents"`
}

// Parse decodes a catalog document, preserving declaration order.
func Parse(data []byte) ([]types.IntentDefinition, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog: %v", types.ErrConfigInvalid, err)
	}
	if doc.Intents.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: catalog has no intents", types.ErrConfigInvalid)
	}

	var defs []types.IntentDefinition
	for i := 0; i+1 < len(doc.Intents.Content); i += 2 {
		name := doc.Intents.Content[i].Value
		var def types.IntentDefinition
		if err := doc.Intents.Content[i+1].Decode(&def); err != nil {
			return nil, fmt.Errorf("%w: intent %q: %v", types.ErrConfigInvalid, name, err)
		}
		def.Name = name
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: catalog has no intents", types.ErrConfigInvalid)
	}
	return defs, nil
}

// Len returns the number of loaded intents.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}

// Names returns the intent names in declaration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns a copy of one intent definition.
func (c *Catalog) Get(name string) (types.IntentDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[name]
	if !ok {
		return types.IntentDefinition{}, false
	}
	out := *def
	out.Examples = append([]string(nil), def.Examples...)
	return out, true
}

// AddExample appends one canonical example to an intent and embeds it
// incrementally, leaving the rest of the matrix untouched. Unknown intents
// fail with types.ErrIntentNotFound, empty text with types.ErrEmptyExample.
func (c *Catalog) AddExample(ctx context.Context, name, text string) error {
	if strings.TrimSpace(text) == "" {
		return types.ErrEmptyExample
	}

	c.mu.Lock()
	def, ok := c.defs[name]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", types.ErrIntentNotFound, name)
	}
	def.Examples = append(def.Examples, text)
	complete := !c.incomplete[name] && len(c.vectors[name]) == len(def.Examples)-1
	c.mu.Unlock()

	if !complete {
		// The matrix was already behind; leave it to the next EnsureEmbeddings.
		c.mu.Lock()
		c.incomplete[name] = true
		c.mu.Unlock()
		return nil
	}

	var vec []float32
	err := c.retry.Do(ctx, func() error {
		var embedErr error
		vec, embedErr = c.provider.Embed(ctx, text, c.language)
		return embedErr
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.incomplete[name] = true
		return fmt.Errorf("%w: embedding example for %q: %v", types.ErrEmbeddingUnavailable, name, err)
	}
	c.vectors[name] = append(c.vectors[name], vec)
	return nil
}
