// Package dice provides the randomness abstraction, expression parser, and roll-result
// types used to resolve Best Left Buried checks and attacks.
package dice

import (
	"fmt"
	"strings"
)

// TermResult holds the outcome of one dice term of an expression.
//
// Invariant: len(Rolled) == Term.Count; Kept is a subsequence of Rolled in roll order.
type TermResult struct {
	Term   Term
	Rolled []int // every die rolled, in roll order
	Kept   []int // dice that count toward the total, in roll order
}

// Sum returns the signed sum of the kept dice.
func (t TermResult) Sum() int {
	sum := 0
	for _, d := range t.Kept {
		sum += d
	}
	return t.Term.Sign * sum
}

// RollResult holds the full audit trail for a single dice expression evaluation.
//
// Postcondition: Total() == sum over terms of Sum() + Modifier.
type RollResult struct {
	Expression string       // original expression string, e.g. "3d6kh2 + 4"
	Terms      []TermResult // one entry per dice term, in expression order
	Modifier   int          // sum of all flat terms (may be negative)
}

// Dice returns the rolled dice of the first dice term in roll order, or nil when the
// expression had no dice term. Flat modifiers never appear here.
func (r RollResult) Dice() []int {
	if len(r.Terms) == 0 {
		return nil
	}
	out := make([]int, len(r.Terms[0].Rolled))
	copy(out, r.Terms[0].Rolled)
	return out
}

// Total returns the sum of all kept dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, t := range r.Terms {
		total += t.Sum()
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"3d6kh2+4 → [2 6 4] +4 = 14"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	parts := make([]string, 0, len(r.Terms))
	for _, t := range r.Terms {
		parts = append(parts, fmt.Sprintf("%v", t.Rolled))
	}
	return fmt.Sprintf("%s → %s %+d = %d", r.Expression, strings.Join(parts, " "), r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations returned by NewCryptoSource are safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
