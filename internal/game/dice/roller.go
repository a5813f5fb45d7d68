package dice

import "sort"

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Dice are drawn term by term, left to right, each die drawn in order.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: for every term, len(Rolled) == Count and len(Kept) equals the keep
// count (or Count when no keep suffix is present).
func Roll(expr Expression, src Source) (RollResult, error) {
	terms := make([]TermResult, 0, len(expr.Dice))
	for _, term := range expr.Dice {
		rolled := make([]int, term.Count)
		for i := range rolled {
			rolled[i] = src.Intn(term.Sides) + 1
		}
		terms = append(terms, TermResult{
			Term:   term,
			Rolled: rolled,
			Kept:   keep(rolled, term),
		})
	}

	return RollResult{
		Expression: expr.Raw,
		Terms:      terms,
		Modifier:   expr.Modifier,
	}, nil
}

// keep returns the dice retained by the term's keep suffix, preserving roll order.
func keep(rolled []int, term Term) []int {
	n := len(rolled)
	highest := true
	switch {
	case term.KeepHighest > 0:
		n = term.KeepHighest
	case term.KeepLowest > 0:
		n = term.KeepLowest
		highest = false
	default:
		out := make([]int, len(rolled))
		copy(out, rolled)
		return out
	}

	idx := make([]int, len(rolled))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if highest {
			return rolled[idx[a]] > rolled[idx[b]]
		}
		return rolled[idx[a]] < rolled[idx[b]]
	})
	chosen := idx[:n]
	sort.Ints(chosen)

	out := make([]int, 0, n)
	for _, i := range chosen {
		out = append(out, rolled[i])
	}
	return out
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Postcondition: Returns a RollResult or an *InvalidFormulaError.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}
