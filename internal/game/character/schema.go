package character

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/blb/internal/game/rules"
)

type bounds struct{ min, max int }

func (b bounds) check(field string, v int) error {
	if v < b.min || v > b.max {
		switch {
		case b.max == math.MaxInt:
			return rules.Invalid(field, v, "must be >= %d", b.min)
		default:
			return rules.Invalid(field, v, "must be between %d and %d", b.min, b.max)
		}
	}
	return nil
}

type scoreRange struct{ base, bonus bounds }

var scoreRanges = map[Attribute]scoreRange{
	Brawn:       {base: bounds{-20, 20}, bonus: bounds{0, 20}},
	Wit:         {base: bounds{-20, 20}, bonus: bounds{0, 20}},
	Will:        {base: bounds{0, 30}, bonus: bounds{0, 20}},
	Affluence:   {base: bounds{0, 30}, bonus: bounds{0, 20}},
	Observation: {base: bounds{-20, 20}, bonus: bounds{0, 20}},
}

var (
	vigourCurrentBounds = bounds{-20, math.MaxInt}
	nonNegative         = bounds{0, math.MaxInt}
	gripBounds          = bounds{0, 30}
)

// ValidateScore reports whether s is legal for attribute a.
//
// Postcondition: returns *rules.SchemaValidationError for an out-of-range component,
// or *rules.UnknownTypeError for an unknown attribute.
func ValidateScore(a Attribute, s Score) error {
	r, ok := scoreRanges[a]
	if !ok {
		return rules.Unknown("attribute", string(a))
	}
	if err := r.base.check(string(a)+".base", s.Base); err != nil {
		return err
	}
	return r.bonus.check(string(a)+".bonus", s.Bonus)
}

// Validate checks every schema constraint of c.
//
// Postcondition: returns nil iff c is well-formed; otherwise the joined violations.
func (c *Character) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, rules.Invalid("id", c.ID, "must not be empty"))
	}
	for _, a := range Attributes() {
		if err := ValidateScore(a, *c.scorePtr(a)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := vigourCurrentBounds.check("vigour.current", c.Vigour.Current); err != nil {
		errs = append(errs, err)
	}
	if err := nonNegative.check("vigour.max", c.Vigour.Max); err != nil {
		errs = append(errs, err)
	}
	if err := gripBounds.check("grip.base", c.Grip.Base); err != nil {
		errs = append(errs, err)
	}
	if err := nonNegative.check("armor.base", c.Armor.Base); err != nil {
		errs = append(errs, err)
	}
	if err := nonNegative.check("xp", c.XP); err != nil {
		errs = append(errs, err)
	}
	if err := nonNegative.check("advancement", c.Advancement); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("character validation failed: %w", errors.Join(errs...))
	}
	return nil
}
