package inventory_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

func newCollection(t *testing.T, items ...*inventory.Item) *inventory.Collection {
	t.Helper()
	return newRuledCollection(t, inventory.Unrestricted{}, items...)
}

func newRuledCollection(t *testing.T, rule inventory.EquipRule, items ...*inventory.Item) *inventory.Collection {
	t.Helper()
	c, err := inventory.NewCollection(catalog.Default(), rule, items...)
	require.NoError(t, err)
	return c
}

func equippedIDs(c *inventory.Collection) []string {
	var out []string
	for _, it := range c.Items() {
		if it.Equipped() {
			out = append(out, it.ID)
		}
	}
	return out
}

func TestConstructors_Defaults(t *testing.T) {
	w := inventory.NewWeapon("Axe", "hand")
	assert.Equal(t, 1, w.SlotValue())
	assert.NotEmpty(t, w.ID)
	assert.True(t, w.Equippable())

	a := inventory.NewAdvancement("Bless")
	formula, attr, ok := a.RollSpec()
	require.True(t, ok)
	assert.Equal(t, "1d20", formula)
	assert.Equal(t, inventory.AttributeNone, attr)
	assert.False(t, a.Equippable())

	l := inventory.NewLoot("Gem")
	assert.Equal(t, 1, l.Loot.Quantity)

	c := inventory.NewConsequence("Broken Arm", "injury")
	assert.False(t, c.Consequence.Active)
	formula, _, ok = c.RollSpec()
	require.True(t, ok)
	assert.Equal(t, "2d6", formula)

	key, ok := inventory.NewShield("Buckler").ArmorKey()
	require.True(t, ok)
	assert.Equal(t, rules.ShieldKey, key)
}

func TestValidate_RejectsMismatchedVariant(t *testing.T) {
	it := inventory.NewWeapon("Axe", "hand")
	it.Loot = &inventory.Loot{Quantity: 1}
	err := it.Validate(nil)
	var sve *rules.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "loot", sve.Field)

	missing := &inventory.Item{Name: "x", Kind: inventory.KindArmor}
	assert.Error(t, missing.Validate(nil))

	unknownKind := &inventory.Item{Name: "x", Kind: "potion"}
	require.ErrorAs(t, unknownKind.Validate(nil), &sve)
	assert.Equal(t, "kind", sve.Field)
}

func TestValidate_CatalogKeys(t *testing.T) {
	cat := catalog.Default()
	var sve *rules.SchemaValidationError

	w := inventory.NewWeapon("Trebuchet", "siege")
	require.ErrorAs(t, w.Validate(cat), &sve)
	assert.Equal(t, "weapon.weapon_type", sve.Field)
	assert.NoError(t, w.Validate(nil), "catalog checks are skipped without a catalog")

	a := inventory.NewArmor("Mithril", "mithril")
	require.ErrorAs(t, a.Validate(cat), &sve)
	assert.Equal(t, "armor.armor_type", sve.Field)

	c := inventory.NewConsequence("Curse", "hex")
	require.ErrorAs(t, c.Validate(cat), &sve)
	assert.Equal(t, "consequence.consequence_type", sve.Field)
}

func TestValidate_Ranges(t *testing.T) {
	var sve *rules.SchemaValidationError

	l := inventory.NewLoot("Coins")
	l.Loot.Quantity = 0
	require.ErrorAs(t, l.Validate(nil), &sve)
	assert.Equal(t, "loot.quantity", sve.Field)

	w := inventory.NewWeapon("Axe", "hand")
	w.Weapon.SlotValue = -1
	require.ErrorAs(t, w.Validate(nil), &sve)
	assert.Equal(t, "weapon.slot_value", sve.Field)

	stat := "luck"
	w = inventory.NewWeapon("Axe", "hand")
	w.Weapon.CustomAttackStat = &stat
	require.ErrorAs(t, w.Validate(nil), &sve)
	assert.Equal(t, "weapon.custom_attack_stat", sve.Field)

	adv := inventory.NewAdvancement("Bless")
	adv.Advancement.UsesAttribute = "affluence"
	require.ErrorAs(t, adv.Validate(nil), &sve)
	assert.Equal(t, "advancement.uses_attribute", sve.Field)
}

func TestClone_IsDeep(t *testing.T) {
	mod := 3
	w := inventory.NewWeapon("Axe", "hand")
	w.Weapon.CustomDamageMod = &mod
	cp := w.Clone()
	*cp.Weapon.CustomDamageMod = 9
	cp.Weapon.Equipped = true
	assert.Equal(t, 3, *w.Weapon.CustomDamageMod)
	assert.False(t, w.Weapon.Equipped)
}

func TestCollection_AddGetRemove(t *testing.T) {
	c := newCollection(t)
	axe := inventory.NewWeapon("Axe", "hand")
	id, err := c.Add(axe)
	require.NoError(t, err)
	assert.Equal(t, axe.ID, id)

	_, err = c.Add(axe)
	assert.ErrorContains(t, err, "already present")

	got, err := c.Get(id)
	require.NoError(t, err)
	got.Name = "Changed"
	again, _ := c.Get(id)
	assert.Equal(t, "Axe", again.Name, "Get returns a copy")

	require.NoError(t, c.Remove(id))
	assert.Equal(t, 0, c.Len())
	assert.True(t, errors.Is(c.Remove(id), inventory.ErrItemNotFound))
}

func TestCollection_AddAssignsMissingID(t *testing.T) {
	c := newCollection(t)
	it := inventory.NewLoot("Gem")
	it.ID = ""
	id, err := c.Add(it)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestCollection_AddRejectsInvalid(t *testing.T) {
	c := newCollection(t)
	_, err := c.Add(inventory.NewWeapon("Trebuchet", "siege"))
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCollection_UpdateKeepsPriorOnError(t *testing.T) {
	loot := inventory.NewLoot("Gem")
	c := newCollection(t, loot)

	err := c.Update(loot.ID, func(it *inventory.Item) error {
		it.Loot.Quantity = 0
		return nil
	})
	assert.Error(t, err)
	got, _ := c.Get(loot.ID)
	assert.Equal(t, 1, got.Loot.Quantity)

	err = c.Update(loot.ID, func(it *inventory.Item) error {
		it.ID = "other"
		return nil
	})
	assert.Error(t, err)

	require.NoError(t, c.Update(loot.ID, func(it *inventory.Item) error {
		it.Loot.Quantity = 4
		return nil
	}))
	got, _ = c.Get(loot.ID)
	assert.Equal(t, 4, got.Loot.Quantity)
}

func TestSetEquipped_UnrestrictedStacksArmor(t *testing.T) {
	a1 := inventory.NewArmor("Jerkin", "basic")
	a2 := inventory.NewArmor("Gambeson", "basic")
	c := newCollection(t, a1, a2)

	for _, id := range []string{a1.ID, a2.ID} {
		displaced, err := c.SetEquipped(id, true)
		require.NoError(t, err)
		assert.Empty(t, displaced)
	}
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, equippedIDs(c))
}

func TestSetEquipped_ExclusiveReplacesSameCategory(t *testing.T) {
	a1 := inventory.NewArmor("Jerkin", "basic")
	a2 := inventory.NewArmor("Breastplate", "plate")
	sh := inventory.NewShield("Buckler")
	shArmor := inventory.NewArmor("Tower", rules.ShieldKey)
	axe := inventory.NewWeapon("Axe", "hand")
	c := newRuledCollection(t, inventory.RuleFor(rules.EquipExclusive), a1, a2, sh, shArmor, axe)

	_, err := c.SetEquipped(a1.ID, true)
	require.NoError(t, err)
	_, err = c.SetEquipped(sh.ID, true)
	require.NoError(t, err)
	_, err = c.SetEquipped(axe.ID, true)
	require.NoError(t, err)

	displaced, err := c.SetEquipped(a2.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{a1.ID}, displaced)

	displaced, err = c.SetEquipped(shArmor.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{sh.ID}, displaced, "shield items and shield armor share a category")

	assert.ElementsMatch(t, []string{a2.ID, shArmor.ID, axe.ID}, equippedIDs(c))
}

func TestSetEquipped_UnequipNeverCascades(t *testing.T) {
	a1 := inventory.NewArmor("Jerkin", "basic")
	a1.Armor.Equipped = true
	sh := inventory.NewShield("Buckler")
	sh.Shield.Equipped = true
	c := newRuledCollection(t, inventory.ExclusiveByCategory{}, a1, sh)

	displaced, err := c.SetEquipped(a1.ID, false)
	require.NoError(t, err)
	assert.Empty(t, displaced)
	assert.Equal(t, []string{sh.ID}, equippedIDs(c))
}

func TestSetEquipped_Errors(t *testing.T) {
	adv := inventory.NewAdvancement("Bless")
	c := newCollection(t, adv)

	var sve *rules.SchemaValidationError
	_, err := c.SetEquipped(adv.ID, true)
	assert.ErrorAs(t, err, &sve)

	_, err = c.SetEquipped("missing", true)
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestNewCollection_ExclusiveKeepsLastEquippedPerCategory(t *testing.T) {
	basic := inventory.NewArmor("Jerkin", "basic")
	basic.Armor.Equipped = true
	plate := inventory.NewArmor("Breastplate", "plate")
	plate.Armor.Equipped = true
	sh := inventory.NewShield("Buckler")
	sh.Shield.Equipped = true

	c := newRuledCollection(t, inventory.ExclusiveByCategory{}, basic, plate, sh)
	assert.ElementsMatch(t, []string{plate.ID, sh.ID}, equippedIDs(c))

	loose := newCollection(t, basic, plate)
	assert.ElementsMatch(t, []string{basic.ID, plate.ID}, equippedIDs(loose))
}

func TestAdd_EquippedItemDisplacesUnderExclusive(t *testing.T) {
	basic := inventory.NewArmor("Jerkin", "basic")
	basic.Armor.Equipped = true
	c := newRuledCollection(t, inventory.ExclusiveByCategory{}, basic)

	plate := inventory.NewArmor("Breastplate", "plate")
	plate.Armor.Equipped = true
	_, err := c.Add(plate)
	require.NoError(t, err)
	assert.Equal(t, []string{plate.ID}, equippedIDs(c))

	_, err = c.Add(inventory.NewArmor("Spare", "basic"))
	require.NoError(t, err)
	assert.Equal(t, []string{plate.ID}, equippedIDs(c), "unequipped additions displace nothing")
}

func TestUpdate_EquipStateChangesGoThroughRule(t *testing.T) {
	basic := inventory.NewArmor("Jerkin", "basic")
	basic.Armor.Equipped = true
	second := inventory.NewArmor("Gambeson", "basic")
	shieldish := inventory.NewArmor("Tower", rules.ShieldKey)
	shieldish.Armor.Equipped = true
	buckler := inventory.NewShield("Buckler")
	c := newRuledCollection(t, inventory.ExclusiveByCategory{}, basic, second, shieldish, buckler)

	require.NoError(t, c.Update(second.ID, func(it *inventory.Item) error {
		it.Armor.Equipped = true
		return nil
	}))
	assert.ElementsMatch(t, []string{second.ID, shieldish.ID}, equippedIDs(c))

	// Retyping an equipped item moves it into the other category.
	require.NoError(t, c.Update(shieldish.ID, func(it *inventory.Item) error {
		it.Armor.ArmorType = "plate"
		return nil
	}))
	assert.Equal(t, []string{shieldish.ID}, equippedIDs(c))

	// A failed update displaces nothing.
	err := c.Update(buckler.ID, func(it *inventory.Item) error {
		it.Shield.Equipped = true
		it.Shield.SlotValue = -1
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, []string{shieldish.ID}, equippedIDs(c))
}

func TestRuleFor(t *testing.T) {
	assert.IsType(t, inventory.Unrestricted{}, inventory.RuleFor(rules.EquipUnrestricted))
	assert.IsType(t, inventory.ExclusiveByCategory{}, inventory.RuleFor(rules.EquipExclusive))
}

func TestProperty_ExclusiveAtMostOnePerCategory(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		items := make([]*inventory.Item, 0, n)
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "kind") {
			case 0:
				items = append(items, inventory.NewArmor("a", "basic"))
			case 1:
				items = append(items, inventory.NewArmor("p", "plate"))
			case 2:
				items = append(items, inventory.NewShield("s"))
			default:
				items = append(items, inventory.NewArmor("t", rules.ShieldKey))
			}
		}
		c, err := inventory.NewCollection(catalog.Default(), inventory.ExclusiveByCategory{}, items...)
		if err != nil {
			rt.Fatalf("collection: %v", err)
		}
		ops := rapid.SliceOf(rapid.IntRange(0, n-1)).Draw(rt, "ops")
		for _, i := range ops {
			equip := rapid.Bool().Draw(rt, "equip")
			if _, err := c.SetEquipped(items[i].ID, equip); err != nil {
				rt.Fatalf("equip: %v", err)
			}
		}
		counts := map[string]int{}
		for _, it := range c.Items() {
			if it.Equipped() {
				counts[inventory.EquipCategory(it)]++
			}
		}
		for cat, count := range counts {
			if count > 1 {
				rt.Fatalf("category %s has %d equipped items", cat, count)
			}
		}
	})
}

func TestLoadKits_ShippedContent(t *testing.T) {
	kits, err := inventory.LoadKits(filepath.Join("..", "..", "..", "content", "kits"), catalog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"delver", "sellsword"}, inventory.KitNames(kits))

	items := kits["sellsword"].Instantiate()
	require.NotEmpty(t, items)
	c := newCollection(t, items...)
	assert.Equal(t, len(items), c.Len())
	for _, it := range c.Items() {
		assert.NotEmpty(t, it.ID)
	}
}

func TestLoadKits_RejectsInvalidItem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
name: bad
items:
  - name: Laser
    kind: weapon
    weapon:
      weapon_type: laser
`), 0644))
	_, err := inventory.LoadKits(dir, catalog.Default())
	assert.ErrorContains(t, err, "invalid item")
}

func TestLoadKits_RequiresName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anon.yaml"), []byte("items: []\n"), 0644))
	_, err := inventory.LoadKits(dir, catalog.Default())
	assert.ErrorContains(t, err, "no name")
}
