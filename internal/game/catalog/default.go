package catalog

// DefaultTables returns the built-in Best Left Buried tables.
//
// Shield appears as an armor type so that armor items typed "shield" and dedicated
// shield items share one bonus entry.
func DefaultTables() Tables {
	return Tables{
		Weapons: []WeaponType{
			{Key: "hand", Label: "Hand Weapon", Range: RangeMelee, AttackStat: "brawn", TwoHandedBonus: true},
			{Key: "heavy", Label: "Heavy Weapon", Range: RangeMelee, AttackStat: "brawn", DamageMod: 1, Initiative: -1},
			{Key: "light", Label: "Light Weapon", Range: RangeMelee, AttackStat: "wit", DamageMod: -1},
			{Key: "long", Label: "Long Weapon", Range: RangeShort, AttackStat: "brawn", Initiative: -1, TwoHandedBonus: true},
			{Key: "ranged", Label: "Ranged Weapon", Range: RangeLong, AttackStat: "wit"},
			{Key: "throwing", Label: "Throwing Weapon", Range: RangeShort, AttackStat: "wit", MeleePenalty: true},
		},
		Armors: []ArmorType{
			{Key: "basic", Label: "Basic Armor (+1)", Bonus: 1},
			{Key: "plate", Label: "Plate Armor (+2)", Bonus: 2},
			{Key: "shield", Label: "Shield (+1)", Bonus: 1},
		},
		Advancements: []Category{
			{Key: "ability", Label: "Ability", Description: "Special character abilities and powers"},
			{Key: "spell", Label: "Spell", Description: "Magical spells and incantations"},
			{Key: "skill", Label: "Skill", Description: "Learned skills and techniques"},
			{Key: "trait", Label: "Trait", Description: "Character traits and features"},
		},
		Consequences: []Category{
			{Key: "injury", Label: "Injury", Description: "Physical injuries and wounds"},
			{Key: "affliction", Label: "Affliction", Description: "Mental or supernatural afflictions"},
		},
		Loot: []Category{
			{Key: "misc", Label: "Miscellaneous", Description: "General items and gear"},
			{Key: "valuable", Label: "Valuable", Description: "Precious items and loots"},
			{Key: "artifact", Label: "Artifact", Description: "Magical or ancient artifacts"},
			{Key: "consumable", Label: "Consumable", Description: "Items that can be consumed or used up"},
		},
	}
}

// Default returns a Catalog built from DefaultTables.
//
// Panics if the built-in tables are invalid.
func Default() *Catalog {
	c, err := New(DefaultTables())
	if err != nil {
		panic("catalog: built-in tables invalid: " + err.Error())
	}
	return c
}
