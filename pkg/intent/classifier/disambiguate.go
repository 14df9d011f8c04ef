package classifier

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// categoryIntents maps a keyword-category name to the intent it argues for.
// Categories not listed here fall back to the <base>_indicators -> <base>_query
// naming convention.
var categoryIntents = map[string]string{
	"hotel_indicators":      "hotel_query",
	"restaurant_indicators": "restaurant_query",
	"flight_indicators":     "flight_query",
	"activity_indicators":   "activity_query",
	"booking_indicators":    "booking_request",
}

func intentForCategory(category string) string {
	if intent, ok := categoryIntents[category]; ok {
		return intent
	}
	return strings.TrimSuffix(category, "_indicators") + "_query"
}

// disambiguate applies the first configured rule, in declaration order, whose
// intent pair matches the current top two candidates and whose gap condition
// holds. Declaration order is part of the contract: two rules may cover the
// same pair with different thresholds.
//
// The rule is recorded on the result even when resolution confirms the
// original winner. Confidence is rewritten only when the resolved intent
// appears in TopIntents; otherwise the original confidence stands.
func (c *Classifier) disambiguate(result *types.Result, utterance string) {
	if len(result.TopIntents) < 2 {
		return
	}
	first, second := result.TopIntents[0], result.TopIntents[1]
	gap := first.Score - second.Score

	for _, rule := range c.resolver.DisambiguationRules() {
		if !rule.MatchesPair(first.Intent, second.Intent) || !rule.Condition.Holds(gap) {
			continue
		}

		resolved := c.resolve(rule, utterance)

		result.DisambiguationApplied = rule.Name
		result.OriginalIntent = first.Intent

		if resolved != result.Intent {
			result.Intent = resolved
			result.Domain = c.resolver.DomainOf(resolved)
			for _, cand := range result.TopIntents {
				if cand.Intent == resolved {
					result.Confidence = cand.Score
					break
				}
			}
		}

		log.Debug().
			Str("rule", rule.Name).
			Str("original", result.OriginalIntent).
			Str("resolved", resolved).
			Float64("gap", gap).
			Msg("Disambiguation rule applied")
		return
	}
}

// resolve runs the rule's resolution strategy against the raw utterance.
func (c *Classifier) resolve(rule types.DisambiguationRule, utterance string) string {
	switch rule.Resolution {
	case types.ResolutionKeywordBased:
		return resolveByKeywords(rule, utterance)
	default:
		// Unreachable: unknown strategies are rejected at config load.
		return rule.PrimaryIntent
	}
}

// resolveByKeywords counts, per category, how many of its keywords appear in
// the utterance (case-insensitive substring match). The category with the
// highest non-zero count wins; with no hits at all the rule's declared
// primary intent is kept.
func resolveByKeywords(rule types.DisambiguationRule, utterance string) string {
	haystack := strings.ToLower(utterance)

	bestCategory := ""
	bestCount := 0
	for category, words := range rule.Keywords {
		count := 0
		for _, word := range words {
			if strings.Contains(haystack, strings.ToLower(word)) {
				count++
			}
		}
		if count > bestCount || (count == bestCount && count > 0 && category < bestCategory) {
			bestCategory = category
			bestCount = count
		}
	}

	if bestCount == 0 {
		return rule.PrimaryIntent
	}
	return intentForCategory(bestCategory)
}
