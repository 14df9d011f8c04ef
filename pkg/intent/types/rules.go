package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolutionStrategy is the closed set of disambiguation resolution
// strategies. Modeling it as an enum keeps new strategies a compile-time
// addition instead of a string match with a silent fallthrough.
type ResolutionStrategy int

const (
	ResolutionKeywordBased ResolutionStrategy = iota
)

func (s ResolutionStrategy) String() string {
	switch s {
	case ResolutionKeywordBased:
		return "keyword_based"
	default:
		return fmt.Sprintf("resolution(%d)", int(s))
	}
}

// ParseResolutionStrategy maps a document tag to a strategy.
func ParseResolutionStrategy(tag string) (ResolutionStrategy, error) {
	switch strings.TrimSpace(tag) {
	case "keyword_based":
		return ResolutionKeywordBased, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownResolution, tag)
	}
}

// CompareOp is the comparison operator of a gap condition.
type CompareOp int

const (
	CompareLess CompareOp = iota
	CompareLessOrEqual
)

// GapCondition is a parsed similarity-gap condition such as
// "similarity_difference < 0.1".
type GapCondition struct {
	Op        CompareOp
	Threshold float64
}

// Holds reports whether the condition is satisfied by the given gap.
func (g GapCondition) Holds(gap float64) bool {
	switch g.Op {
	case CompareLessOrEqual:
		return gap <= g.Threshold
	default:
		return gap < g.Threshold
	}
}

// ParseGapCondition parses the condition expression of a disambiguation rule.
// Accepted subjects are "gap" and "similarity_difference"; accepted operators
// are "<" and "<=".
func ParseGapCondition(expr string) (GapCondition, error) {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 3 {
		return GapCondition{}, fmt.Errorf("%w: %q", ErrInvalidCondition, expr)
	}
	if fields[0] != "gap" && fields[0] != "similarity_difference" {
		return GapCondition{}, fmt.Errorf("%w: unknown subject %q", ErrInvalidCondition, fields[0])
	}

	var op CompareOp
	switch fields[1] {
	case "<":
		op = CompareLess
	case "<=":
		op = CompareLessOrEqual
	default:
		return GapCondition{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, fields[1])
	}

	threshold, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return GapCondition{}, fmt.Errorf("%w: threshold %q", ErrInvalidCondition, fields[2])
	}

	return GapCondition{Op: op, Threshold: threshold}, nil
}

// ContextRule activates a named conversational context when one of its
// trigger intents wins, boosting related intents for a bounded number of
// turns.
type ContextRule struct {
	Name     string             `json:"name"`
	Triggers []string           `json:"triggers"`
	Boosts   map[string]float64 `json:"boosts"`
	Duration int                `json:"duration"`
}

// Triggered reports whether the given intent activates this rule.
func (r ContextRule) Triggered(intent string) bool {
	for _, t := range r.Triggers {
		if t == intent {
			return true
		}
	}
	return false
}

// DisambiguationRule breaks a near-tie between a specific intent pair using
// keyword evidence from the raw utterance.
type DisambiguationRule struct {
	Name            string              `json:"name"`
	PrimaryIntent   string              `json:"primary_intent"`
	SecondaryIntent string              `json:"secondary_intent"`
	Condition       GapCondition        `json:"-"`
	RawCondition    string              `json:"condition"`
	Resolution      ResolutionStrategy  `json:"-"`
	Keywords        map[string][]string `json:"keywords"`
}

// MatchesPair reports whether the rule covers the given intent pair,
// irrespective of order.
func (r DisambiguationRule) MatchesPair(a, b string) bool {
	return (r.PrimaryIntent == a && r.SecondaryIntent == b) ||
		(r.PrimaryIntent == b && r.SecondaryIntent == a)
}
