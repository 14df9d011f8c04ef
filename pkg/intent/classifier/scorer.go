package classifier

import (
	"sort"

	"github.com/tripdesk/intentcore/pkg/intent/embedding"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// scoreIntents computes one score per fully-embedded intent: the maximum
// cosine similarity between the query and that intent's example matrix. The
// max, not the mean — one strong canonical match is enough, which favors
// recall of paraphrases over penalizing sparse example sets. Context boosts
// are added after the max, so a boost shifts a real match rather than
// manufacturing one.
func scoreIntents(query []float32, vectors map[string][][]float32, boosts map[string]float64) map[string]float64 {
	scores := make(map[string]float64, len(vectors))
	for name, matrix := range vectors {
		if len(matrix) == 0 {
			continue
		}
		best := embedding.Cosine(query, matrix[0])
		for _, example := range matrix[1:] {
			if sim := embedding.Cosine(query, example); sim > best {
				best = sim
			}
		}
		if boost, ok := boosts[name]; ok {
			best += boost
		}
		scores[name] = best
	}
	return scores
}

// rank orders scores descending. Ties break on intent name so identical
// inputs always produce identical rankings.
func rank(scores map[string]float64) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(scores))
	for name, score := range scores {
		candidates = append(candidates, types.Candidate{Intent: name, Score: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Intent < candidates[j].Intent
	})
	return candidates
}
