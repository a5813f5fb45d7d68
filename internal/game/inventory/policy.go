package inventory

import "github.com/cory-johannsen/blb/internal/game/rules"

// Equip categories used by the exclusive policy.
const (
	CategoryBody   = "body"
	CategoryShield = "shield"
)

// EquipRule decides which equipped items give way when another item is equipped.
type EquipRule interface {
	// Displaced returns the IDs of currently equipped items that must be unequipped when
	// target is equipped. target itself is never included.
	Displaced(target *Item, items []*Item) []string
}

// Unrestricted lets any number of items be equipped together.
type Unrestricted struct{}

// Displaced always returns nil.
func (Unrestricted) Displaced(*Item, []*Item) []string { return nil }

// ExclusiveByCategory allows one equipped item per equip category: one body armor
// (basic or plate) and one shield. Items outside both categories never conflict.
type ExclusiveByCategory struct{}

// Displaced returns the other equipped items sharing target's category.
func (ExclusiveByCategory) Displaced(target *Item, items []*Item) []string {
	cat := EquipCategory(target)
	if cat == "" {
		return nil
	}
	var out []string
	for _, it := range items {
		if it.ID != target.ID && it.Equipped() && EquipCategory(it) == cat {
			out = append(out, it.ID)
		}
	}
	return out
}

// EquipCategory returns CategoryBody for basic and plate armor, CategoryShield for shield
// items and shield-typed armor, and "" otherwise.
func EquipCategory(it *Item) string {
	key, ok := it.ArmorKey()
	if !ok {
		return ""
	}
	switch key {
	case "basic", "plate":
		return CategoryBody
	case rules.ShieldKey:
		return CategoryShield
	}
	return ""
}

// RuleFor returns the EquipRule implementing p. Unknown policies fall back to Unrestricted.
func RuleFor(p rules.EquipPolicy) EquipRule {
	if p == rules.EquipExclusive {
		return ExclusiveByCategory{}
	}
	return Unrestricted{}
}
