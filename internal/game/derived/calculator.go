// Package derived computes the read-only view of a character: attribute totals, armor,
// and encumbrance. It is the only place these formulas live.
package derived

import (
	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Stats is the derived view of one character.
type Stats struct {
	Brawn       int `json:"brawn"`
	Wit         int `json:"wit"`
	Will        int `json:"will"`
	Affluence   int `json:"affluence"`
	Observation int `json:"observation"`

	ArmorBase  int `json:"armor_base"`
	ArmorBonus int `json:"armor_bonus"`
	ArmorTotal int `json:"armor_total"`

	EncumbranceCurrent int  `json:"encumbrance_current"`
	EncumbranceMax     int  `json:"encumbrance_max"`
	OverEncumbered     bool `json:"over_encumbered"`

	Vigour character.Pool `json:"vigour"`
	Grip   int            `json:"grip"`

	// AffluenceCarried is the summed value of carried loot.
	AffluenceCarried int `json:"affluence_carried"`
}

// Total returns the total of attribute a, or 0 for an unknown attribute.
func (s Stats) Total(a character.Attribute) int {
	switch a {
	case character.Brawn:
		return s.Brawn
	case character.Wit:
		return s.Wit
	case character.Will:
		return s.Will
	case character.Affluence:
		return s.Affluence
	case character.Observation:
		return s.Observation
	}
	return 0
}

// Calculator computes Stats using an injected armor bonus table.
type Calculator struct {
	armorBonus rules.ArmorBonusTable
}

// NewCalculator returns a Calculator using table for armor bonuses.
//
// Postcondition: later changes to table do not affect the Calculator.
func NewCalculator(table rules.ArmorBonusTable) *Calculator {
	return &Calculator{armorBonus: table.With(nil)}
}

// EncumbranceMax returns 12 + 2×brawn + max(wit, will).
func EncumbranceMax(brawn, wit, will int) int {
	return rules.EncumbranceBase + rules.EncumbranceBrawnMultiplier*brawn + max(wit, will)
}

// Compute derives Stats from ch and items.
//
// Unknown armor keys contribute 0. Totals are never clamped.
//
// Precondition: ch is non-nil; items hold valid variants.
// Postcondition: neither ch nor items are modified; equal inputs yield equal Stats.
func (c *Calculator) Compute(ch *character.Character, items []*inventory.Item) Stats {
	s := Stats{
		Brawn:       ch.Brawn.Total(),
		Wit:         ch.Wit.Total(),
		Will:        ch.Will.Total(),
		Affluence:   ch.Affluence.Total(),
		Observation: ch.Observation.Total(),
		ArmorBase:   ch.Armor.Base,
		Vigour:      ch.Vigour,
		Grip:        ch.Grip.Base,
	}
	for _, it := range items {
		if key, ok := it.ArmorKey(); ok && it.Equipped() {
			s.ArmorBonus += c.armorBonus.Bonus(key)
		}
		if sv := it.SlotValue(); sv > 0 {
			s.EncumbranceCurrent += sv
		}
		if it.Kind == inventory.KindLoot {
			s.AffluenceCarried += it.Loot.Affluence * it.Loot.Quantity
		}
	}
	s.ArmorTotal = s.ArmorBase + s.ArmorBonus
	s.EncumbranceMax = EncumbranceMax(s.Brawn, s.Wit, s.Will)
	s.OverEncumbered = s.EncumbranceCurrent > s.EncumbranceMax
	return s
}
