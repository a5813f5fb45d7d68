// Package catalog provides the immutable type tables of Best Left Buried: weapon types,
// armor types, and the advancement, consequence, and loot categories.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Range labels used by weapon types.
const (
	RangeMelee = "melee"
	RangeShort = "short"
	RangeLong  = "long"
)

var rangeLabels = map[string]string{
	RangeMelee: "Melee",
	RangeShort: "Short Range",
	RangeLong:  "Long Range",
}

// attackStats lists the attributes a weapon type may attack with.
var attackStats = map[string]string{
	"brawn": "Brawn",
	"wit":   "Wit",
	"will":  "Will",
}

// WeaponType holds the default gameplay properties of a weapon category.
type WeaponType struct {
	Key            string `yaml:"key"`
	Label          string `yaml:"label"`
	Range          string `yaml:"range"`
	AttackStat     string `yaml:"attack_stat"`
	DamageMod      int    `yaml:"damage_mod"`
	Initiative     int    `yaml:"initiative"`
	TwoHandedBonus bool   `yaml:"two_handed_bonus"`
	MeleePenalty   bool   `yaml:"melee_penalty"`
}

// Validate reports an error if the WeaponType is missing required fields or contains
// illegal values.
func (w *WeaponType) Validate() error {
	var errs []error
	if w.Key == "" {
		errs = append(errs, errors.New("key must not be empty"))
	}
	if w.Label == "" {
		errs = append(errs, errors.New("label must not be empty"))
	}
	if _, ok := rangeLabels[w.Range]; !ok {
		errs = append(errs, fmt.Errorf("range %q must be one of [melee, short, long]", w.Range))
	}
	if _, ok := attackStats[w.AttackStat]; !ok {
		errs = append(errs, fmt.Errorf("attack_stat %q must be one of [brawn, wit, will]", w.AttackStat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon type validation failed: %v", errs)
	}
	return nil
}

// ArmorType holds the armor bonus granted by an armor category while equipped.
type ArmorType struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Bonus int    `yaml:"bonus"`
}

// Validate reports an error if the ArmorType is missing required fields.
//
// Negative bonuses are legal; custom catalogs may define encumbering gear.
func (a *ArmorType) Validate() error {
	var errs []error
	if a.Key == "" {
		errs = append(errs, errors.New("key must not be empty"))
	}
	if a.Label == "" {
		errs = append(errs, errors.New("label must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor type validation failed: %v", errs)
	}
	return nil
}

// Category is a labelled enumeration value with no gameplay properties.
type Category struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Tables is the raw content a Catalog is built from.
type Tables struct {
	Weapons      []WeaponType `yaml:"weapons"`
	Armors       []ArmorType  `yaml:"armors"`
	Advancements []Category   `yaml:"advancements"`
	Consequences []Category   `yaml:"consequences"`
	Loot         []Category   `yaml:"loot"`
}

// Catalog is an immutable, validated index over Tables.
//
// A Catalog is safe for concurrent use once built.
type Catalog struct {
	weapons      map[string]WeaponType
	weaponOrder  []string
	armors       map[string]ArmorType
	armorOrder   []string
	advancements map[string]Category
	consequences map[string]Category
	loot         map[string]Category
}

// New validates t and returns a Catalog indexed by key.
//
// Postcondition: returns an error naming the first invalid or duplicate entry.
func New(t Tables) (*Catalog, error) {
	c := &Catalog{
		weapons:      make(map[string]WeaponType, len(t.Weapons)),
		armors:       make(map[string]ArmorType, len(t.Armors)),
		advancements: make(map[string]Category, len(t.Advancements)),
		consequences: make(map[string]Category, len(t.Consequences)),
		loot:         make(map[string]Category, len(t.Loot)),
	}
	for _, w := range t.Weapons {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: weapon %q: %w", w.Key, err)
		}
		if _, exists := c.weapons[w.Key]; exists {
			return nil, fmt.Errorf("catalog: weapon type %q already registered", w.Key)
		}
		c.weapons[w.Key] = w
		c.weaponOrder = append(c.weaponOrder, w.Key)
	}
	for _, a := range t.Armors {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: armor %q: %w", a.Key, err)
		}
		if _, exists := c.armors[a.Key]; exists {
			return nil, fmt.Errorf("catalog: armor type %q already registered", a.Key)
		}
		c.armors[a.Key] = a
		c.armorOrder = append(c.armorOrder, a.Key)
	}
	for name, pair := range map[string]struct {
		src []Category
		dst map[string]Category
	}{
		"advancement": {t.Advancements, c.advancements},
		"consequence": {t.Consequences, c.consequences},
		"loot":        {t.Loot, c.loot},
	} {
		for _, cat := range pair.src {
			if cat.Key == "" || cat.Label == "" {
				return nil, fmt.Errorf("catalog: %s category %q must have key and label", name, cat.Key)
			}
			if _, exists := pair.dst[cat.Key]; exists {
				return nil, fmt.Errorf("catalog: %s category %q already registered", name, cat.Key)
			}
			pair.dst[cat.Key] = cat
		}
	}
	return c, nil
}

// Weapon returns the WeaponType for key.
//
// Postcondition: returns *rules.UnknownTypeError when key is not registered.
func (c *Catalog) Weapon(key string) (WeaponType, error) {
	w, ok := c.weapons[key]
	if !ok {
		return WeaponType{}, rules.Unknown("weapon", key)
	}
	return w, nil
}

// Armor returns the ArmorType for key.
//
// Postcondition: returns *rules.UnknownTypeError when key is not registered.
func (c *Catalog) Armor(key string) (ArmorType, error) {
	a, ok := c.armors[key]
	if !ok {
		return ArmorType{}, rules.Unknown("armor", key)
	}
	return a, nil
}

// HasWeapon reports whether key names a weapon type.
func (c *Catalog) HasWeapon(key string) bool {
	_, ok := c.weapons[key]
	return ok
}

// HasArmor reports whether key names an armor type.
func (c *Catalog) HasArmor(key string) bool {
	_, ok := c.armors[key]
	return ok
}

// HasAdvancement reports whether key names an advancement category.
func (c *Catalog) HasAdvancement(key string) bool {
	_, ok := c.advancements[key]
	return ok
}

// HasConsequence reports whether key names a consequence category.
func (c *Catalog) HasConsequence(key string) bool {
	_, ok := c.consequences[key]
	return ok
}

// HasLoot reports whether key names a loot category.
func (c *Catalog) HasLoot(key string) bool {
	_, ok := c.loot[key]
	return ok
}

// WeaponLabel returns the display label for a weapon type, or "" when unknown.
func (c *Catalog) WeaponLabel(key string) string { return c.weapons[key].Label }

// ArmorLabel returns the display label for an armor type, or "" when unknown.
func (c *Catalog) ArmorLabel(key string) string { return c.armors[key].Label }

// ConsequenceLabel returns the display label for a consequence category, or "" when unknown.
func (c *Catalog) ConsequenceLabel(key string) string { return c.consequences[key].Label }

// RangeLabel returns the display label for a weapon range, or "" when unknown.
func RangeLabel(key string) string { return rangeLabels[key] }

// AttackStatLabel returns the display label for an attack attribute, or "" when unknown.
func AttackStatLabel(key string) string { return attackStats[key] }

// WeaponTypes returns every weapon type in registration order.
func (c *Catalog) WeaponTypes() []WeaponType {
	out := make([]WeaponType, 0, len(c.weaponOrder))
	for _, k := range c.weaponOrder {
		out = append(out, c.weapons[k])
	}
	return out
}

// ArmorTypes returns every armor type in registration order.
func (c *Catalog) ArmorTypes() []ArmorType {
	out := make([]ArmorType, 0, len(c.armorOrder))
	for _, k := range c.armorOrder {
		out = append(out, c.armors[k])
	}
	return out
}

// ConsequenceKeys returns the registered consequence category keys in sorted order.
func (c *Catalog) ConsequenceKeys() []string {
	keys := make([]string, 0, len(c.consequences))
	for k := range c.consequences {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ArmorBonusTable returns the armor bonus mapping derived from the armor types.
//
// Postcondition: the returned table is a fresh copy.
func (c *Catalog) ArmorBonusTable() rules.ArmorBonusTable {
	t := make(rules.ArmorBonusTable, len(c.armors))
	for k, a := range c.armors {
		t[k] = a.Bonus
	}
	return t
}
