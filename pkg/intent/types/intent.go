package types

// Sentinel intent names returned by the classifier when no catalog intent wins.
const (
	IntentGreeting               = "greeting"
	IntentGeneralQuery           = "general_query"
	IntentDisambiguationRequired = "disambiguation_required"
)

// DomainUnknown is returned by the hierarchy resolver for intents that belong
// to no declared domain.
const DomainUnknown = "unknown"

// IntentDefinition describes one recognizable user goal: its domain, a short
// description and the canonical example utterances that anchor its embedding
// matrix. Definitions are immutable after catalog load except for additive
// example appends.
type IntentDefinition struct {
	Name        string         `json:"name" yaml:"-"`
	Domain      string         `json:"domain,omitempty" yaml:"domain,omitempty"`
	Description string         `json:"description" yaml:"description"`
	Examples    []string       `json:"examples" yaml:"examples"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Candidate is one scored intent produced during a single classification.
type Candidate struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

// Result is the outcome of one classification call.
type Result struct {
	Intent         string      `json:"intent"`
	Confidence     float64     `json:"confidence"`
	ConfidenceDiff float64     `json:"confidence_diff"`
	TopIntents     []Candidate `json:"top_intents,omitempty"`
	Domain         string      `json:"domain,omitempty"`

	// NeedsDisambiguation is the authoritative "near miss" signal. The
	// Intent field may additionally carry the disambiguation_required
	// sentinel in the below-threshold path for wire compatibility.
	NeedsDisambiguation bool `json:"needs_disambiguation"`

	// DisambiguationApplied names the rule that fired, when one did. It is
	// set even when the rule confirmed the original winner; confirmation is
	// itself a signal callers can use to suppress clarifying prompts.
	DisambiguationApplied string `json:"disambiguation_applied,omitempty"`
	OriginalIntent        string `json:"original_intent,omitempty"`
}
