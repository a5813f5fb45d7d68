// Package inventory models the items a character owns and the policies governing
// their equip state.
package inventory

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Kind tags the variant an Item carries.
type Kind string

const (
	KindWeapon      Kind = "weapon"
	KindArmor       Kind = "armor"
	KindShield      Kind = "shield"
	KindAdvancement Kind = "advancement"
	KindConsequence Kind = "consequence"
	KindLoot        Kind = "loot"
)

// Kinds returns every item kind.
func Kinds() []Kind {
	return []Kind{KindWeapon, KindArmor, KindShield, KindAdvancement, KindConsequence, KindLoot}
}

// AttributeNone marks an item roll that adds no attribute total.
const AttributeNone = "none"

// Default item roll formulas, by kind.
const (
	DefaultAdvancementFormula = "1d20"
	DefaultConsequenceFormula = "2d6"
)

// Uses tracks a limited-use resource.
type Uses struct {
	Current int `yaml:"current" json:"current"`
	Max     int `yaml:"max" json:"max"`
}

// Weapon is the weapon variant of an Item. Nil Custom* fields defer to the catalog.
type Weapon struct {
	WeaponType       string  `yaml:"weapon_type" json:"weapon_type"`
	IsTwoHanded      bool    `yaml:"is_two_handed" json:"is_two_handed"`
	InMelee          bool    `yaml:"in_melee" json:"in_melee"`
	Equipped         bool    `yaml:"equipped" json:"equipped"`
	SlotValue        int     `yaml:"slot_value" json:"slot_value"`
	CustomDamageMod  *int    `yaml:"custom_damage_mod,omitempty" json:"custom_damage_mod,omitempty"`
	CustomInitiative *int    `yaml:"custom_initiative,omitempty" json:"custom_initiative,omitempty"`
	CustomRange      *string `yaml:"custom_range,omitempty" json:"custom_range,omitempty"`
	CustomAttackStat *string `yaml:"custom_attack_stat,omitempty" json:"custom_attack_stat,omitempty"`
	Note             string  `yaml:"note,omitempty" json:"note,omitempty"`
	Description      string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Armor is the armor variant of an Item.
type Armor struct {
	ArmorType   string `yaml:"armor_type" json:"armor_type"`
	Equipped    bool   `yaml:"equipped" json:"equipped"`
	SlotValue   int    `yaml:"slot_value" json:"slot_value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Shield is a stand-alone shield item. It grants the armor bonus registered under
// rules.ShieldKey.
type Shield struct {
	Equipped    bool   `yaml:"equipped" json:"equipped"`
	SlotValue   int    `yaml:"slot_value" json:"slot_value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Advancement is a learned ability, spell, skill, or trait.
type Advancement struct {
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	AdvancementType string `yaml:"advancement_type,omitempty" json:"advancement_type,omitempty"`
	RollFormula     string `yaml:"roll_formula" json:"roll_formula"`
	UsesAttribute   string `yaml:"uses_attribute" json:"uses_attribute"`
	HasUses         bool   `yaml:"has_uses" json:"has_uses"`
	Uses            Uses   `yaml:"uses" json:"uses"`
}

// Consequence is an injury or affliction.
type Consequence struct {
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	ConsequenceType string `yaml:"consequence_type" json:"consequence_type"`
	Active          bool   `yaml:"active" json:"active"`
	RollFormula     string `yaml:"roll_formula" json:"roll_formula"`
	UsesAttribute   string `yaml:"uses_attribute" json:"uses_attribute"`
	HasUses         bool   `yaml:"has_uses" json:"has_uses"`
	Uses            Uses   `yaml:"uses" json:"uses"`
}

// Loot is carried treasure or gear.
type Loot struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	LootType    string `yaml:"loot_type,omitempty" json:"loot_type,omitempty"`
	Affluence   int    `yaml:"affluence" json:"affluence"`
	SlotValue   int    `yaml:"slot_value" json:"slot_value"`
	Quantity    int    `yaml:"quantity" json:"quantity"`
}

// Item is a tagged union over the item variants. Exactly the variant selected by Kind
// is non-nil in a valid Item.
type Item struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Kind Kind   `yaml:"kind" json:"kind"`

	Weapon      *Weapon      `yaml:"weapon,omitempty" json:"weapon,omitempty"`
	Armor       *Armor       `yaml:"armor,omitempty" json:"armor,omitempty"`
	Shield      *Shield      `yaml:"shield,omitempty" json:"shield,omitempty"`
	Advancement *Advancement `yaml:"advancement,omitempty" json:"advancement,omitempty"`
	Consequence *Consequence `yaml:"consequence,omitempty" json:"consequence,omitempty"`
	Loot        *Loot        `yaml:"loot,omitempty" json:"loot,omitempty"`
}

// NewWeapon returns a weapon Item with schema defaults.
func NewWeapon(name, weaponType string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindWeapon,
		Weapon: &Weapon{WeaponType: weaponType, SlotValue: 1}}
}

// NewArmor returns an armor Item with schema defaults.
func NewArmor(name, armorType string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindArmor,
		Armor: &Armor{ArmorType: armorType, SlotValue: 1}}
}

// NewShield returns a shield Item with schema defaults.
func NewShield(name string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindShield,
		Shield: &Shield{SlotValue: 1}}
}

// NewAdvancement returns an advancement Item with schema defaults.
func NewAdvancement(name string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindAdvancement,
		Advancement: &Advancement{RollFormula: DefaultAdvancementFormula, UsesAttribute: AttributeNone}}
}

// NewConsequence returns an inactive consequence Item with schema defaults.
func NewConsequence(name, consequenceType string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindConsequence,
		Consequence: &Consequence{ConsequenceType: consequenceType,
			RollFormula: DefaultConsequenceFormula, UsesAttribute: AttributeNone}}
}

// NewLoot returns a loot Item with schema defaults.
func NewLoot(name string) *Item {
	return &Item{ID: uuid.NewString(), Name: name, Kind: KindLoot,
		Loot: &Loot{SlotValue: 1, Quantity: 1}}
}

// SlotValue returns the carrying cost of the item, or 0 for kinds without one.
func (it *Item) SlotValue() int {
	switch it.Kind {
	case KindWeapon:
		return it.Weapon.SlotValue
	case KindArmor:
		return it.Armor.SlotValue
	case KindShield:
		return it.Shield.SlotValue
	case KindLoot:
		return it.Loot.SlotValue
	}
	return 0
}

// Equippable reports whether the item kind has an equipped flag.
func (it *Item) Equippable() bool {
	switch it.Kind {
	case KindWeapon, KindArmor, KindShield:
		return true
	}
	return false
}

// Equipped reports whether the item is currently equipped.
func (it *Item) Equipped() bool {
	switch it.Kind {
	case KindWeapon:
		return it.Weapon.Equipped
	case KindArmor:
		return it.Armor.Equipped
	case KindShield:
		return it.Shield.Equipped
	}
	return false
}

func (it *Item) setEquipped(v bool) {
	switch it.Kind {
	case KindWeapon:
		it.Weapon.Equipped = v
	case KindArmor:
		it.Armor.Equipped = v
	case KindShield:
		it.Shield.Equipped = v
	}
}

// ArmorKey returns the armor-bonus key for armor-category items: the ArmorType of an
// Armor item, or rules.ShieldKey for a Shield item.
//
// Postcondition: ok is false for every other kind.
func (it *Item) ArmorKey() (key string, ok bool) {
	switch it.Kind {
	case KindArmor:
		return it.Armor.ArmorType, true
	case KindShield:
		return rules.ShieldKey, true
	}
	return "", false
}

// RollSpec returns the stored roll formula and linked attribute of a rollable item.
//
// Postcondition: ok is false for kinds that have no roll formula.
func (it *Item) RollSpec() (formula, attribute string, ok bool) {
	switch it.Kind {
	case KindAdvancement:
		return it.Advancement.RollFormula, it.Advancement.UsesAttribute, true
	case KindConsequence:
		return it.Consequence.RollFormula, it.Consequence.UsesAttribute, true
	}
	return "", "", false
}

// LimitedUses returns the uses tracker of an advancement or consequence.
//
// Postcondition: ok is false when the item does not track uses.
func (it *Item) LimitedUses() (uses *Uses, ok bool) {
	switch {
	case it.Kind == KindAdvancement && it.Advancement.HasUses:
		return &it.Advancement.Uses, true
	case it.Kind == KindConsequence && it.Consequence.HasUses:
		return &it.Consequence.Uses, true
	}
	return nil, false
}

// Clone returns a deep copy of it.
func (it *Item) Clone() *Item {
	out := *it
	if it.Weapon != nil {
		w := *it.Weapon
		w.CustomDamageMod = clonePtr(w.CustomDamageMod)
		w.CustomInitiative = clonePtr(w.CustomInitiative)
		w.CustomRange = clonePtr(w.CustomRange)
		w.CustomAttackStat = clonePtr(w.CustomAttackStat)
		out.Weapon = &w
	}
	out.Armor = clonePtr(it.Armor)
	out.Shield = clonePtr(it.Shield)
	out.Advancement = clonePtr(it.Advancement)
	out.Consequence = clonePtr(it.Consequence)
	out.Loot = clonePtr(it.Loot)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
