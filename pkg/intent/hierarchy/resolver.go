package hierarchy

import "github.com/tripdesk/intentcore/pkg/intent/types"

// Resolver answers domain and rule lookups over a loaded config. It is
// read-only and deterministic: a linear scan in declaration order, which is
// plenty at the catalog sizes this engine sees.
type Resolver struct {
	cfg *Config
}

// NewResolver wraps a config. A nil config behaves like an empty one.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = &Config{ConfidenceThresholds: DefaultThresholds()}
	}
	return &Resolver{cfg: cfg}
}

// Config returns the underlying config.
func (r *Resolver) Config() *Config {
	return r.cfg
}

// DomainOf returns the first declared domain containing the intent, or the
// unknown sentinel.
func (r *Resolver) DomainOf(intent string) string {
	for _, d := range r.cfg.Domains {
		for _, name := range d.Intents {
			if name == intent {
				return d.Name
			}
		}
	}
	return types.DomainUnknown
}

// ContextRule returns the named context rule.
func (r *Resolver) ContextRule(name string) (types.ContextRule, bool) {
	for _, rule := range r.cfg.ContextRules {
		if rule.Name == name {
			return rule, true
		}
	}
	return types.ContextRule{}, false
}

// ContextRuleForTrigger returns the first context rule triggered by the
// intent.
func (r *Resolver) ContextRuleForTrigger(intent string) (types.ContextRule, bool) {
	for _, rule := range r.cfg.ContextRules {
		if rule.Triggered(intent) {
			return rule, true
		}
	}
	return types.ContextRule{}, false
}

// DisambiguationRules returns the rules in declaration order.
func (r *Resolver) DisambiguationRules() []types.DisambiguationRule {
	return r.cfg.DisambiguationRules
}

// MinConfidence returns the configured confidence floor.
func (r *Resolver) MinConfidence() float64 {
	return r.cfg.ConfidenceThresholds.MinConfidence
}
