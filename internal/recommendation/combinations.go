package recommendation

import "github.com/richxcame/pricing-pipeline/internal/rulegenerator"

// MaxCandidateRules bounds the pool of ranked rules the combination search
// draws from; rulegenerator.Rank has already ordered the full rule set by
// estimated impact, so truncating to the top N keeps the search space
// tractable without discarding the rules most likely to matter.
const MaxCandidateRules = 20

// MinCardinality and MaxCardinality bound combination size.
const (
	MinCardinality = 1
	MaxCardinality = 5
)

// candidatePool returns the top-N ranked rules to search over.
func candidatePool(ranked []rulegenerator.Rule) []rulegenerator.Rule {
	if len(ranked) <= MaxCandidateRules {
		return ranked
	}
	return ranked[:MaxCandidateRules]
}

// enumerateCombinations returns every non-empty subset of pool with
// cardinality between MinCardinality and MaxCardinality, as index sets
// into pool so callers can map back to the originating rules.
func enumerateCombinations(pool []rulegenerator.Rule) []combo {
	var combos []combo
	n := len(pool)
	maxK := MaxCardinality
	if maxK > n {
		maxK = n
	}
	for k := MinCardinality; k <= maxK; k++ {
		indices := make([]int, k)
		for i := range indices {
			indices[i] = i
		}
		for {
			rules := make([]rulegenerator.Rule, k)
			for i, idx := range indices {
				rules[i] = pool[idx]
			}
			combos = append(combos, combo{rules: rules})

			// advance to the next k-combination, lexicographically
			i := k - 1
			for i >= 0 && indices[i] == n-k+i {
				i--
			}
			if i < 0 {
				break
			}
			indices[i]++
			for j := i + 1; j < k; j++ {
				indices[j] = indices[j-1] + 1
			}
		}
	}
	return combos
}

// ruleIDSet returns the rule IDs in a combo as a set for subset testing.
func ruleIDSet(c combo) map[string]bool {
	set := make(map[string]bool, len(c.rules))
	for _, r := range c.rules {
		set[r.RuleID] = true
	}
	return set
}

// isSubsetOf reports whether a's rule IDs are all contained in b's.
func isSubsetOf(a, b map[string]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
