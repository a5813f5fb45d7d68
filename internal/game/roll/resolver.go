package roll

import (
	"fmt"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/derived"
	"github.com/cory-johannsen/blb/internal/game/dice"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Engine evaluates dice expressions. *dice.Roller satisfies it.
type Engine interface {
	RollExpr(expr string) (dice.RollResult, error)
}

// Result is the structured outcome of one roll. It is never persisted.
type Result struct {
	Kind    Kind   `json:"kind"`
	Mode    Mode   `json:"mode"`
	Label   string `json:"label"`
	Formula string `json:"formula"`
	// Dice holds the first dice term's values in roll order.
	Dice []int `json:"dice"`
	// Discarded holds indices into Dice flagged for display as dropped.
	Discarded []int `json:"discarded,omitempty"`
	Modifier  int   `json:"modifier"`
	Total     int   `json:"total"`
	// Succeeded is set for attribute checks only.
	Succeeded *bool `json:"succeeded,omitempty"`
	Threshold int   `json:"threshold,omitempty"`

	// Attribute and AttributeValue name the attribute that fed the roll, if any.
	Attribute      character.Attribute `json:"attribute,omitempty"`
	AttributeValue int                 `json:"attribute_value"`
	DamageMod      int                 `json:"damage_mod"`
	Note           string              `json:"note,omitempty"`
}

// Resolver turns roll requests into Results.
type Resolver struct {
	engine  Engine
	catalog *catalog.Catalog
	policy  rules.Policy
}

// NewResolver returns a Resolver rolling through engine.
//
// Precondition: engine and cat are non-nil.
func NewResolver(engine Engine, cat *catalog.Catalog, policy rules.Policy) *Resolver {
	if policy.SuccessThreshold == 0 {
		policy.SuccessThreshold = rules.DefaultSuccessThreshold
	}
	return &Resolver{engine: engine, catalog: cat, policy: policy}
}

// AttributeCheck rolls 2d6 (or 3d6 keeping 2) plus the attribute total and classifies
// success against the threshold.
//
// Postcondition: an unknown attribute or mode returns *rules.UnknownTypeError before any
// dice are rolled.
func (r *Resolver) AttributeCheck(stats derived.Stats, attr character.Attribute, mode Mode) (Result, error) {
	if _, err := character.ParseAttribute(string(attr)); err != nil {
		return Result{}, err
	}
	term, err := attributeDice.term(mode)
	if err != nil {
		return Result{}, err
	}
	value := stats.Total(attr)
	res, err := r.evaluate(fmt.Sprintf("%s + %d", term, value), mode)
	if err != nil {
		return Result{}, err
	}
	res.Kind = KindAttribute
	res.Label = attr.Label()
	res.Attribute = attr
	res.AttributeValue = value
	succeeded := res.Total >= r.policy.SuccessThreshold
	res.Succeeded = &succeeded
	res.Threshold = r.policy.SuccessThreshold
	return res, nil
}

// WeaponAttack rolls 3d6 (or 4d6 keeping 2) plus the attack-stat total and the weapon's
// damage modifier; zero-valued modifiers are left out of the formula.
//
// Postcondition: an unknown weapon type, attack stat, or mode returns
// *rules.UnknownTypeError before any dice are rolled.
func (r *Resolver) WeaponAttack(stats derived.Stats, item *inventory.Item, mode Mode) (Result, error) {
	if item.Kind != inventory.KindWeapon || item.Weapon == nil {
		return Result{}, rules.Invalid("kind", item.Kind, "item %q is not a weapon", item.Name)
	}
	w := item.Weapon
	wt, err := r.catalog.Weapon(w.WeaponType)
	if err != nil {
		return Result{}, err
	}
	attr, err := character.ParseAttribute(AttackStat(w, wt))
	if err != nil {
		return Result{}, err
	}
	term, err := weaponDice.term(mode)
	if err != nil {
		return Result{}, err
	}
	attack := stats.Total(attr)
	dmg := r.damageModifier(w, wt)

	formula := term
	if attack != 0 {
		formula += fmt.Sprintf(" + %d", attack)
	}
	if dmg != 0 {
		formula += fmt.Sprintf(" + %d", dmg)
	}
	res, err := r.evaluate(formula, mode)
	if err != nil {
		return Result{}, err
	}
	res.Kind = KindWeapon
	res.Label = item.Name
	res.Attribute = attr
	res.AttributeValue = attack
	res.DamageMod = dmg
	res.Note = w.Note
	return res, nil
}

// ItemRoll rolls an advancement's or consequence's stored formula, adding the linked
// attribute total when the item names one other than "none".
//
// Postcondition: a malformed formula returns *dice.InvalidFormulaError and no dice are
// rolled.
func (r *Resolver) ItemRoll(stats derived.Stats, item *inventory.Item) (Result, error) {
	formula, attrName, ok := item.RollSpec()
	if !ok {
		return Result{}, rules.Invalid("kind", item.Kind, "item %q has no roll formula", item.Name)
	}
	if _, err := dice.Parse(formula); err != nil {
		return Result{}, err
	}
	var (
		attr  character.Attribute
		value int
	)
	if attrName != "" && attrName != inventory.AttributeNone {
		a, err := character.ParseAttribute(attrName)
		if err != nil {
			return Result{}, err
		}
		attr, value = a, stats.Total(a)
		formula += fmt.Sprintf(" + %d", value)
	}
	res, err := r.evaluate(formula, Standard)
	if err != nil {
		return Result{}, err
	}
	res.Kind = KindItem
	res.Label = item.Name
	res.Attribute = attr
	res.AttributeValue = value
	return res, nil
}

// DamageModifier returns the effective damage modifier of a weapon item.
//
// Postcondition: returns *rules.UnknownTypeError when the weapon type is not in the
// catalog.
func (r *Resolver) DamageModifier(item *inventory.Item) (int, error) {
	if item.Kind != inventory.KindWeapon || item.Weapon == nil {
		return 0, rules.Invalid("kind", item.Kind, "item %q is not a weapon", item.Name)
	}
	wt, err := r.catalog.Weapon(item.Weapon.WeaponType)
	if err != nil {
		return 0, err
	}
	return r.damageModifier(item.Weapon, wt), nil
}

// damageModifier starts from the override or the catalog default, then applies the
// catalog's melee penalty and two-handed bonus. With OverrideSkipsAdjustments an active
// override is final.
func (r *Resolver) damageModifier(w *inventory.Weapon, wt catalog.WeaponType) int {
	mod := wt.DamageMod
	if w.CustomDamageMod != nil {
		mod = *w.CustomDamageMod
		if r.policy.OverrideSkipsAdjustments {
			return mod
		}
	}
	if w.InMelee && wt.MeleePenalty {
		mod--
	}
	if w.IsTwoHanded && wt.TwoHandedBonus {
		mod++
	}
	return mod
}

// AttackStat returns the weapon's custom attack stat when set, else the catalog default.
func AttackStat(w *inventory.Weapon, wt catalog.WeaponType) string {
	if w.CustomAttackStat != nil && *w.CustomAttackStat != "" {
		return *w.CustomAttackStat
	}
	return wt.AttackStat
}

func (r *Resolver) evaluate(formula string, mode Mode) (Result, error) {
	rr, err := r.engine.RollExpr(formula)
	if err != nil {
		return Result{}, fmt.Errorf("roll %q: %w", formula, err)
	}
	res := Result{
		Mode:     mode,
		Formula:  formula,
		Dice:     rr.Dice(),
		Modifier: rr.Modifier,
		Total:    rr.Total(),
	}
	if i := DiscardIndex(res.Dice, mode); i >= 0 {
		res.Discarded = []int{i}
	}
	return res, nil
}

// DiscardIndex returns the index of the die flagged as discarded: the first minimum for
// UpperHand, the first maximum for AgainstOdds, and -1 for Standard or no dice.
func DiscardIndex(values []int, mode Mode) int {
	if len(values) == 0 || (mode != UpperHand && mode != AgainstOdds) {
		return -1
	}
	idx := 0
	for i, v := range values {
		if (mode == UpperHand && v < values[idx]) || (mode == AgainstOdds && v > values[idx]) {
			idx = i
		}
	}
	return idx
}
