// Package hierarchy loads the domain taxonomy and disambiguation
// configuration: which intents belong to which domain, the named context
// rules that boost intents for a few turns, and the rules that break
// near-ties between intent pairs.
package hierarchy

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// Domain groups related intents for priority and context-sensitivity.
type Domain struct {
	Name             string   `yaml:"-"`
	Intents          []string `yaml:"intents"`
	Priority         int      `yaml:"priority"`
	ContextSensitive bool     `yaml:"context_sensitive"`
}

// Thresholds carries the tunable confidence model.
type Thresholds struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// DefaultThresholds is used when the document declares none.
func DefaultThresholds() Thresholds {
	return Thresholds{MinConfidence: 0.6}
}

// Config is the parsed hierarchy/disambiguation document. Domain and rule
// declaration order is preserved: the domain resolver returns the first
// matching domain, and disambiguation applies the first matching rule.
type Config struct {
	Domains              []Domain
	ContextRules         []types.ContextRule
	DisambiguationRules  []types.DisambiguationRule
	ConfidenceThresholds Thresholds
}

// Load reads and parses the document at path. A missing or malformed
// document fails with types.ErrConfigInvalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading hierarchy %s: %v", types.ErrConfigInvalid, path, err)
	}
	return Parse(data)
}

// LoadOrEmpty is Load with degraded-mode recovery: config errors log a
// warning and yield an empty config (no domains, no rules, default
// thresholds).
func LoadOrEmpty(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Hierarchy config unavailable, running without domains and rules")
		return &Config{ConfidenceThresholds: DefaultThresholds()}
	}
	return cfg
}

type hierarchyDocument struct {
	IntentHierarchy      yaml.Node  `yaml:"intent_hierarchy"`
	ContextRules         yaml.Node  `yaml:"context_rules"`
	DisambiguationRules  yaml.Node  `yaml:"disambiguation_rules"`
	ConfidenceThresholds Thresholds `yaml:"confidence_thresholds"`
}

type rawDisambiguationRule struct {
	PrimaryIntent   string              `yaml:"primary_intent"`
	SecondaryIntent string              `yaml:"secondary_intent"`
	Condition       string              `yaml:"condition"`
	Resolution      string              `yaml:"resolution"`
	Keywords        map[string][]string `yaml:"keywords"`
}

// Parse decodes a hierarchy document. A single malformed disambiguation rule
// is skipped with a warning; it must not prevent the others from loading.
func Parse(data []byte) (*Config, error) {
	var doc hierarchyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing hierarchy: %v", types.ErrConfigInvalid, err)
	}

	cfg := &Config{ConfidenceThresholds: doc.ConfidenceThresholds}
	if cfg.ConfidenceThresholds.MinConfidence <= 0 {
		cfg.ConfidenceThresholds = DefaultThresholds()
	}

	if err := eachMappingEntry(doc.IntentHierarchy, func(name string, node *yaml.Node) error {
		var d Domain
		if err := node.Decode(&d); err != nil {
			return fmt.Errorf("%w: domain %q: %v", types.ErrConfigInvalid, name, err)
		}
		d.Name = name
		cfg.Domains = append(cfg.Domains, d)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachMappingEntry(doc.ContextRules, func(name string, node *yaml.Node) error {
		var r types.ContextRule
		if err := node.Decode(&r); err != nil {
			return fmt.Errorf("%w: context rule %q: %v", types.ErrConfigInvalid, name, err)
		}
		r.Name = name
		cfg.ContextRules = append(cfg.ContextRules, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachMappingEntry(doc.DisambiguationRules, func(name string, node *yaml.Node) error {
		rule, err := parseDisambiguationRule(name, node)
		if err != nil {
			log.Warn().Err(err).Str("rule", name).Msg("Skipping malformed disambiguation rule")
			return nil
		}
		cfg.DisambiguationRules = append(cfg.DisambiguationRules, rule)
		return nil
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDisambiguationRule(name string, node *yaml.Node) (types.DisambiguationRule, error) {
	var raw rawDisambiguationRule
	if err := node.Decode(&raw); err != nil {
		return types.DisambiguationRule{}, fmt.Errorf("%w: rule %q: %v", types.ErrConfigInvalid, name, err)
	}
	if raw.PrimaryIntent == "" || raw.SecondaryIntent == "" {
		return types.DisambiguationRule{}, fmt.Errorf("%w: rule %q: missing intent pair", types.ErrConfigInvalid, name)
	}

	condition, err := types.ParseGapCondition(raw.Condition)
	if err != nil {
		return types.DisambiguationRule{}, err
	}
	resolution, err := types.ParseResolutionStrategy(raw.Resolution)
	if err != nil {
		return types.DisambiguationRule{}, err
	}

	return types.DisambiguationRule{
		Name:            name,
		PrimaryIntent:   raw.PrimaryIntent,
		SecondaryIntent: raw.SecondaryIntent,
		Condition:       condition,
		RawCondition:    raw.Condition,
		Resolution:      resolution,
		Keywords:        raw.Keywords,
	}, nil
}

// eachMappingEntry walks a YAML mapping node in declaration order. An absent
// section (zero node or non-mapping) is fine and yields nothing.
func eachMappingEntry(node yaml.Node, fn func(name string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
