package classifier

import (
	"github.com/tripdesk/intentcore/pkg/intent/catalog"
	"github.com/tripdesk/intentcore/pkg/intent/embedding"
	"github.com/tripdesk/intentcore/pkg/intent/hierarchy"
)

type Option func(*Classifier)

func WithCatalog(c *catalog.Catalog) Option {
	return func(cl *Classifier) {
		cl.catalog = c
	}
}

func WithHierarchy(cfg *hierarchy.Config) Option {
	return func(cl *Classifier) {
		cl.resolver = hierarchy.NewResolver(cfg)
	}
}

func WithProvider(p embedding.Provider) Option {
	return func(cl *Classifier) {
		cl.provider = p
	}
}

// WithMinConfidence overrides the confidence floor from the hierarchy config.
func WithMinConfidence(min float64) Option {
	return func(cl *Classifier) {
		cl.minConfidence = min
	}
}

// WithDefaultLanguage sets the language hint used when a request carries none.
func WithDefaultLanguage(language string) Option {
	return func(cl *Classifier) {
		cl.language = language
	}
}
