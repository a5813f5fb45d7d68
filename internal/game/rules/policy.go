package rules

import (
	"fmt"
	"maps"
	"slices"
)

const (
	// EncumbranceBase is the carrying capacity of a character with all totals at zero.
	EncumbranceBase = 12
	// EncumbranceBrawnMultiplier scales brawn total into carrying capacity.
	EncumbranceBrawnMultiplier = 2
	// DefaultArmorBase is the schema default for a character's base armor.
	DefaultArmorBase = 7
	// DefaultSuccessThreshold is the inclusive total an attribute check must reach.
	DefaultSuccessThreshold = 9
	// ShieldKey is the armor-bonus key used for shield items and the shield armor type.
	ShieldKey = "shield"
)

// EquipPolicy selects how equipping armor interacts with already-equipped armor.
type EquipPolicy string

const (
	// EquipUnrestricted lets any number of armor items be equipped at once.
	EquipUnrestricted EquipPolicy = "unrestricted"
	// EquipExclusive allows one body armor (basic or plate) and one shield at a time.
	EquipExclusive EquipPolicy = "exclusive"
)

// ParseEquipPolicy converts a configuration string into an EquipPolicy.
func ParseEquipPolicy(s string) (EquipPolicy, error) {
	switch p := EquipPolicy(s); p {
	case EquipUnrestricted, EquipExclusive:
		return p, nil
	}
	return "", fmt.Errorf("equip policy must be one of [unrestricted, exclusive], got %q", s)
}

// ArmorBonusTable maps an armor key (armor type or "shield") to the armor bonus it grants
// while equipped.
type ArmorBonusTable map[string]int

// DefaultArmorBonus returns the table used when no catalog or override is supplied.
func DefaultArmorBonus() ArmorBonusTable {
	return ArmorBonusTable{"basic": 1, "plate": 2, ShieldKey: 1}
}

// Bonus returns the bonus for key, or 0 when the key is not in the table.
func (t ArmorBonusTable) Bonus(key string) int {
	return t[key]
}

// With returns a copy of t with every entry of overrides applied on top.
//
// Postcondition: t is not modified.
func (t ArmorBonusTable) With(overrides map[string]int) ArmorBonusTable {
	out := make(ArmorBonusTable, len(t)+len(overrides))
	maps.Copy(out, t)
	maps.Copy(out, overrides)
	return out
}

// Keys returns the table keys in sorted order.
func (t ArmorBonusTable) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Policy bundles the version-dependent rule switches selected at system setup.
type Policy struct {
	// Equip selects the armor equip policy.
	Equip EquipPolicy
	// OverrideSkipsAdjustments makes a weapon's custom damage modifier final, suppressing
	// the two-handed bonus and the melee penalty.
	OverrideSkipsAdjustments bool
	// SuccessThreshold is the inclusive attribute-check success total.
	SuccessThreshold int
	// ArmorBonus maps armor keys to their bonus.
	ArmorBonus ArmorBonusTable
}

// DefaultPolicy returns the canonical rule set: unrestricted stacking, overrides skip
// adjustments, threshold 9, and the default armor bonus table.
func DefaultPolicy() Policy {
	return Policy{
		Equip:                    EquipUnrestricted,
		OverrideSkipsAdjustments: true,
		SuccessThreshold:         DefaultSuccessThreshold,
		ArmorBonus:               DefaultArmorBonus(),
	}
}
