// Package rating implements the Elo computation every ledger write runs
// through. It is pure: identical inputs always produce an identical delta,
// which is what makes match edits and deletions exactly reversible.
package rating

import "math"

const (
	// Initial is the rating every player starts each mode and season at.
	Initial = 1200

	// K bounds how far a single result can move a rating.
	K = 32
)

// Expected returns the probability that a player rated a beats a player
// rated b, per the standard logistic curve.
func Expected(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/400))
}

// Delta computes the rating change for the winning side. The losing side
// applies the exact negation. Upsets move ratings more than expected wins.
func Delta(winner, loser int) int {
	return int(math.Round(K * (1 - Expected(winner, loser))))
}

// TeamRating collapses a side's ratings into one number, the arithmetic
// mean rounded to the nearest integer. A single rating passes through
// unchanged, so singles and doubles share the same delta path.
func TeamRating(ratings []int) int {
	if len(ratings) == 0 {
		return Initial
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}
