package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

var usesAttributes = map[string]bool{
	"":            true,
	AttributeNone: true,
	"brawn":       true,
	"wit":         true,
	"will":        true,
}

// Validate checks the item's structure and, when cat is non-nil, its catalog keys.
//
// Roll formulas are not parsed here; a malformed formula surfaces when the item is
// rolled.
//
// Precondition: it is non-nil.
// Postcondition: returns nil iff every field is valid; violations are
// *rules.SchemaValidationError values joined together.
func (it *Item) Validate(cat *catalog.Catalog) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if it.Name == "" {
		add(rules.Invalid("name", it.Name, "must not be empty"))
	}

	variants := map[Kind]bool{
		KindWeapon:      it.Weapon != nil,
		KindArmor:       it.Armor != nil,
		KindShield:      it.Shield != nil,
		KindAdvancement: it.Advancement != nil,
		KindConsequence: it.Consequence != nil,
		KindLoot:        it.Loot != nil,
	}
	set, ok := variants[it.Kind]
	if !ok {
		return rules.Invalid("kind", it.Kind, "must be one of %v", Kinds())
	}
	if !set {
		return rules.Invalid(string(it.Kind), nil, "variant data missing for kind %s", it.Kind)
	}
	for k, present := range variants {
		if present && k != it.Kind {
			add(rules.Invalid(string(k), "set", "must be empty for kind %s", it.Kind))
		}
	}

	switch it.Kind {
	case KindWeapon:
		w := it.Weapon
		add(nonNegative("weapon.slot_value", w.SlotValue))
		if cat != nil && !cat.HasWeapon(w.WeaponType) {
			add(rules.Invalid("weapon.weapon_type", w.WeaponType, "not a known weapon type"))
		}
		if w.CustomRange != nil && *w.CustomRange != "" && catalog.RangeLabel(*w.CustomRange) == "" {
			add(rules.Invalid("weapon.custom_range", *w.CustomRange, "must be one of [melee, short, long]"))
		}
		if w.CustomAttackStat != nil && *w.CustomAttackStat != "" && catalog.AttackStatLabel(*w.CustomAttackStat) == "" {
			add(rules.Invalid("weapon.custom_attack_stat", *w.CustomAttackStat, "must be one of [brawn, wit, will]"))
		}
	case KindArmor:
		add(nonNegative("armor.slot_value", it.Armor.SlotValue))
		if cat != nil && !cat.HasArmor(it.Armor.ArmorType) {
			add(rules.Invalid("armor.armor_type", it.Armor.ArmorType, "not a known armor type"))
		}
	case KindShield:
		add(nonNegative("shield.slot_value", it.Shield.SlotValue))
	case KindAdvancement:
		a := it.Advancement
		add(validateRollable("advancement", a.UsesAttribute, a.Uses))
		if cat != nil && a.AdvancementType != "" && !cat.HasAdvancement(a.AdvancementType) {
			add(rules.Invalid("advancement.advancement_type", a.AdvancementType, "not a known advancement type"))
		}
	case KindConsequence:
		c := it.Consequence
		add(validateRollable("consequence", c.UsesAttribute, c.Uses))
		if cat != nil && !cat.HasConsequence(c.ConsequenceType) {
			add(rules.Invalid("consequence.consequence_type", c.ConsequenceType, "not a known consequence type"))
		}
	case KindLoot:
		l := it.Loot
		add(nonNegative("loot.affluence", l.Affluence))
		add(nonNegative("loot.slot_value", l.SlotValue))
		if l.Quantity < 1 {
			add(rules.Invalid("loot.quantity", l.Quantity, "must be >= 1"))
		}
		if cat != nil && l.LootType != "" && !cat.HasLoot(l.LootType) {
			add(rules.Invalid("loot.loot_type", l.LootType, "not a known loot type"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %w", it.Name, errors.Join(errs...))
	}
	return nil
}

func nonNegative(field string, v int) error {
	if v < 0 {
		return rules.Invalid(field, v, "must be >= 0")
	}
	return nil
}

func validateRollable(prefix, attr string, uses Uses) error {
	if !usesAttributes[attr] {
		return rules.Invalid(prefix+".uses_attribute", attr, "must be one of [none, brawn, wit, will]")
	}
	if err := nonNegative(prefix+".uses.current", uses.Current); err != nil {
		return err
	}
	return nonNegative(prefix+".uses.max", uses.Max)
}
