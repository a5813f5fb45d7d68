package dice

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	maxDice  = 100
	maxSides = 1000
)

// InvalidFormulaError reports a dice expression that cannot be parsed.
type InvalidFormulaError struct {
	Formula string
	Reason  string
}

func (e *InvalidFormulaError) Error() string {
	return fmt.Sprintf("dice: invalid formula %q: %s", e.Formula, e.Reason)
}

func invalid(formula, format string, args ...any) *InvalidFormulaError {
	return &InvalidFormulaError{Formula: formula, Reason: fmt.Sprintf(format, args...)}
}

// Term is a single "NdM" dice term with an optional keep suffix.
//
// Invariant: at most one of KeepHighest and KeepLowest is non-zero.
type Term struct {
	Count       int // number of dice
	Sides       int // faces per die
	KeepHighest int // if > 0, keep only the N highest dice (e.g. 3d6kh2)
	KeepLowest  int // if > 0, keep only the N lowest dice (e.g. 3d6kl2)
	Sign        int // +1 or -1
}

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: len(Dice) >= 1 after a successful Parse.
type Expression struct {
	Raw      string // original input string
	Dice     []Term // dice terms in expression order
	Modifier int    // sum of all flat integer terms
}

// Parse parses a dice expression into an Expression.
//
// Supported forms are a sum of dice terms and flat integers with optional whitespace:
// "d20", "2d6", "2d6+3", "4d8-2", "3d6kh2 + 4", "4d6kl2 + 2 + -1".
// Consecutive signs combine, so "+ -1" subtracts one.
//
// Postcondition: Returns a valid Expression or an *InvalidFormulaError.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Expression{}, invalid(raw, "empty expression")
	}

	out := Expression{Raw: raw}
	for i := 0; i < len(s); {
		sign := 1
		for i < len(s) && (s[i] == '+' || s[i] == '-') {
			if s[i] == '-' {
				sign = -sign
			}
			i++
		}
		j := i
		for j < len(s) && s[j] != '+' && s[j] != '-' {
			j++
		}
		body := s[i:j]
		if body == "" {
			return Expression{}, invalid(raw, "dangling operator")
		}
		if strings.Contains(body, "d") {
			term, err := parseTerm(raw, body)
			if err != nil {
				return Expression{}, err
			}
			term.Sign = sign
			out.Dice = append(out.Dice, term)
		} else {
			n, err := strconv.Atoi(body)
			if err != nil {
				return Expression{}, invalid(raw, "invalid term %q", body)
			}
			out.Modifier += sign * n
		}
		i = j
	}

	if len(out.Dice) == 0 {
		return Expression{}, invalid(raw, "missing 'd' in expression")
	}
	return out, nil
}

// parseTerm parses a single dice term body such as "3d6kh2".
func parseTerm(raw, body string) (Term, error) {
	dIdx := strings.Index(body, "d")

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	count := 1
	if countStr := body[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Term{}, invalid(raw, "invalid die count %q", countStr)
		}
		if count <= 0 {
			return Term{}, invalid(raw, "die count must be >= 1")
		}
		if count > maxDice {
			return Term{}, invalid(raw, "die count must be <= %d", maxDice)
		}
	}

	rest := body[dIdx+1:]
	var keepHighest, keepLowest int
	for _, suffix := range []string{"kh", "kl"} {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			continue
		}
		keep, err := strconv.Atoi(rest[idx+2:])
		if err != nil {
			return Term{}, invalid(raw, "invalid %s value %q", suffix, rest[idx+2:])
		}
		if keep <= 0 || keep >= count {
			return Term{}, invalid(raw, "%s value %d must be > 0 and < count %d", suffix, keep, count)
		}
		if suffix == "kh" {
			keepHighest = keep
		} else {
			keepLowest = keep
		}
		rest = rest[:idx]
		break
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Term{}, invalid(raw, "invalid die sides %q", rest)
	}
	if sides < 2 || sides > maxSides {
		return Term{}, invalid(raw, "die sides must be between 2 and %d", maxSides)
	}

	return Term{
		Count:       count,
		Sides:       sides,
		KeepHighest: keepHighest,
		KeepLowest:  keepLowest,
		Sign:        1,
	}, nil
}
