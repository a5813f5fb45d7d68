package sheet_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/dice"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/roll"
	"github.com/cory-johannsen/blb/internal/game/rules"
	"github.com/cory-johannsen/blb/internal/game/sheet"
)

type fakeStore struct {
	saved []sheet.Record
	err   error
}

func (f *fakeStore) Save(_ context.Context, rec sheet.Record) error {
	f.saved = append(f.saved, rec)
	return f.err
}

type fakeChat struct {
	posted []roll.Message
	err    error
}

func (f *fakeChat) Post(_ context.Context, msg roll.Message) error {
	f.posted = append(f.posted, msg)
	return f.err
}

type fixture struct {
	sheet *sheet.Sheet
	store *fakeStore
	chat  *fakeChat
	src   *dice.SequenceSource
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, policy rules.Policy, rec sheet.Record, faces ...int) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	src := dice.NewSequenceSource(faces...)
	f := &fixture{store: &fakeStore{}, chat: &fakeChat{}, src: src, logs: logs}
	s, err := sheet.New(rec, sheet.Deps{
		Catalog: catalog.Default(),
		Policy:  policy,
		Engine:  dice.NewLoggedRoller(src, logger),
		Store:   f.store,
		Chat:    f.chat,
		Logger:  logger,
	})
	require.NoError(t, err)
	f.sheet = s
	return f
}

func newRecord(items ...*inventory.Item) sheet.Record {
	return sheet.Record{Character: character.New("Mireille"), Items: items}
}

func TestNew_RejectsInvalidRecord(t *testing.T) {
	deps := sheet.Deps{Catalog: catalog.Default(), Engine: dice.NewLoggedRoller(dice.NewSequenceSource(), zap.NewNop())}

	_, err := sheet.New(sheet.Record{}, deps)
	assert.Error(t, err)

	ch := character.New("x")
	ch.Brawn.Base = 99
	_, err = sheet.New(sheet.Record{Character: ch}, deps)
	assert.ErrorContains(t, err, "brawn.base")

	_, err = sheet.New(newRecord(inventory.NewWeapon("Trebuchet", "siege")), deps)
	assert.ErrorContains(t, err, "weapon_type")
}

func TestNew_CopiesRecord(t *testing.T) {
	rec := newRecord()
	f := newFixture(t, rules.DefaultPolicy(), rec)
	rec.Character.Name = "Changed"
	assert.Equal(t, "Mireille", f.sheet.Character().Name)
	assert.Equal(t, rec.Character.ID, f.sheet.ID())
}

func TestDerived_RecomputedAfterEdits(t *testing.T) {
	armor := inventory.NewArmor("Jerkin", "basic")
	f := newFixture(t, rules.DefaultPolicy(), newRecord(armor))
	ctx := context.Background()

	assert.Equal(t, 7, f.sheet.Derived().ArmorTotal)
	assert.Equal(t, 1, f.sheet.Derived().EncumbranceCurrent)

	_, err := f.sheet.SetEquipped(ctx, armor.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 8, f.sheet.Derived().ArmorTotal)

	require.NoError(t, f.sheet.SetAttribute(ctx, "brawn", 5, 0))
	assert.Equal(t, 5, f.sheet.Derived().Brawn)
	assert.Equal(t, 22, f.sheet.Derived().EncumbranceMax)

	require.NoError(t, f.sheet.SetArmorBase(ctx, 3))
	assert.Equal(t, 4, f.sheet.Derived().ArmorTotal)

	require.NoError(t, f.sheet.RemoveItem(ctx, armor.ID))
	assert.Equal(t, 3, f.sheet.Derived().ArmorTotal)
	assert.Equal(t, 0, f.sheet.Derived().EncumbranceCurrent)
}

func TestEquipPolicy_FromConfiguration(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		equip rules.EquipPolicy
		bonus int
	}{
		{rules.EquipUnrestricted, 2},
		{rules.EquipExclusive, 1},
	} {
		t.Run(string(tc.equip), func(t *testing.T) {
			a1 := inventory.NewArmor("Jerkin", "basic")
			a2 := inventory.NewArmor("Gambeson", "basic")
			policy := rules.DefaultPolicy()
			policy.Equip = tc.equip
			f := newFixture(t, policy, newRecord(a1, a2))

			_, err := f.sheet.SetEquipped(ctx, a1.ID, true)
			require.NoError(t, err)
			_, err = f.sheet.SetEquipped(ctx, a2.ID, true)
			require.NoError(t, err)
			assert.Equal(t, tc.bonus, f.sheet.Derived().ArmorBonus)
		})
	}
}

func exclusivePolicy() rules.Policy {
	p := rules.DefaultPolicy()
	p.Equip = rules.EquipExclusive
	return p
}

func equippedArmor(name, armorType string) *inventory.Item {
	it := inventory.NewArmor(name, armorType)
	it.Armor.Equipped = true
	return it
}

func TestExclusive_LoadedRecordKeepsLastBodyArmor(t *testing.T) {
	basic := equippedArmor("Jerkin", "basic")
	plate := equippedArmor("Breastplate", "plate")
	f := newFixture(t, exclusivePolicy(), newRecord(basic, plate))

	assert.Equal(t, 2, f.sheet.Derived().ArmorBonus)
	got, err := f.sheet.Item(basic.ID)
	require.NoError(t, err)
	assert.False(t, got.Equipped())
}

func TestExclusive_AddItemEquippedDisplaces(t *testing.T) {
	ctx := context.Background()
	basic := inventory.NewArmor("Jerkin", "basic")
	f := newFixture(t, exclusivePolicy(), newRecord(basic))
	_, err := f.sheet.SetEquipped(ctx, basic.ID, true)
	require.NoError(t, err)

	_, err = f.sheet.AddItem(ctx, equippedArmor("Breastplate", "plate"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.sheet.Derived().ArmorBonus)
}

func TestExclusive_UpdateItemEquipDisplaces(t *testing.T) {
	ctx := context.Background()
	plate := equippedArmor("Breastplate", "plate")
	spare := inventory.NewArmor("Gambeson", "basic")
	f := newFixture(t, exclusivePolicy(), newRecord(plate, spare))

	require.NoError(t, f.sheet.UpdateItem(ctx, spare.ID, func(it *inventory.Item) error {
		it.Armor.Equipped = true
		return nil
	}))
	assert.Equal(t, 1, f.sheet.Derived().ArmorBonus)

	require.NoError(t, f.sheet.UpdateItem(ctx, spare.ID, func(it *inventory.Item) error {
		it.Armor.ArmorType = "plate"
		return nil
	}))
	assert.Equal(t, 2, f.sheet.Derived().ArmorBonus)
}

func TestEdits_RejectedEditKeepsPriorValue(t *testing.T) {
	f := newFixture(t, rules.DefaultPolicy(), newRecord())
	ctx := context.Background()

	var sve *rules.SchemaValidationError
	require.ErrorAs(t, f.sheet.SetAttribute(ctx, "will", -1, 0), &sve)
	require.ErrorAs(t, f.sheet.SetVigour(ctx, -30, 10), &sve)
	require.ErrorAs(t, f.sheet.SetGrip(ctx, 40), &sve)

	var unknown *rules.UnknownTypeError
	require.ErrorAs(t, f.sheet.SetAttribute(ctx, "charisma", 1, 0), &unknown)

	ch := f.sheet.Character()
	assert.Equal(t, character.Score{}, ch.Will)
	assert.Equal(t, character.Pool{Current: 10, Max: 10}, ch.Vigour)
	assert.Empty(t, f.store.saved, "rejected edits are not persisted")
}

func TestEdits_PersistEveryMutation(t *testing.T) {
	f := newFixture(t, rules.DefaultPolicy(), newRecord())
	ctx := context.Background()

	assert.Equal(t, 1, f.sheet.AdjustXP(ctx, 1))
	assert.Equal(t, 0, f.sheet.AdjustAdvancement(ctx, -1))
	require.NoError(t, f.sheet.SetGrip(ctx, 4))
	id, err := f.sheet.AddItem(ctx, inventory.NewLoot("Gem"))
	require.NoError(t, err)

	require.Len(t, f.store.saved, 4)
	last := f.store.saved[3]
	assert.Equal(t, 1, last.Character.XP)
	assert.Equal(t, 4, last.Character.Grip.Base)
	require.Len(t, last.Items, 1)
	assert.Equal(t, id, last.Items[0].ID)
}

func TestEdits_StoreFailureIsLoggedNotReturned(t *testing.T) {
	f := newFixture(t, rules.DefaultPolicy(), newRecord())
	f.store.err = errors.New("connection refused")

	require.NoError(t, f.sheet.SetGrip(context.Background(), 2))
	assert.Equal(t, 2, f.sheet.Character().Grip.Base)
	warnings := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("saving character failed")
	assert.Equal(t, 1, warnings.Len())
}

func TestUpdateItem(t *testing.T) {
	loot := inventory.NewLoot("Coins")
	f := newFixture(t, rules.DefaultPolicy(), newRecord(loot))
	ctx := context.Background()

	require.NoError(t, f.sheet.UpdateItem(ctx, loot.ID, func(it *inventory.Item) error {
		it.Loot.SlotValue = 3
		return nil
	}))
	assert.Equal(t, 3, f.sheet.Derived().EncumbranceCurrent)

	err := f.sheet.UpdateItem(ctx, "missing", func(*inventory.Item) error { return nil })
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestSetActive(t *testing.T) {
	injury := inventory.NewConsequence("Broken Arm", "injury")
	axe := inventory.NewWeapon("Axe", "hand")
	f := newFixture(t, rules.DefaultPolicy(), newRecord(injury, axe))
	ctx := context.Background()

	require.NoError(t, f.sheet.SetActive(ctx, injury.ID, true))
	got, err := f.sheet.Item(injury.ID)
	require.NoError(t, err)
	assert.True(t, got.Consequence.Active)

	require.NoError(t, f.sheet.SetActive(ctx, injury.ID, false))
	got, err = f.sheet.Item(injury.ID)
	require.NoError(t, err)
	assert.False(t, got.Consequence.Active)

	var sve *rules.SchemaValidationError
	assert.ErrorAs(t, f.sheet.SetActive(ctx, axe.ID, true), &sve)
}

func TestUses_SpendAndRestore(t *testing.T) {
	spell := inventory.NewAdvancement("Bless")
	spell.Advancement.HasUses = true
	spell.Advancement.Uses = inventory.Uses{Current: 1, Max: 2}
	plain := inventory.NewAdvancement("Lore")
	f := newFixture(t, rules.DefaultPolicy(), newRecord(spell, plain))
	ctx := context.Background()

	left, err := f.sheet.SpendUse(ctx, spell.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	_, err = f.sheet.SpendUse(ctx, spell.ID)
	assert.ErrorIs(t, err, sheet.ErrNoUsesLeft)

	require.NoError(t, f.sheet.RestoreUses(ctx, spell.ID))
	got, _ := f.sheet.Item(spell.ID)
	assert.Equal(t, 2, got.Advancement.Uses.Current)

	_, err = f.sheet.SpendUse(ctx, plain.ID)
	var sve *rules.SchemaValidationError
	assert.ErrorAs(t, err, &sve)
}

func TestRollAttribute_PostsMessage(t *testing.T) {
	f := newFixture(t, rules.DefaultPolicy(), newRecord(), 2, 6, 4)
	ctx := context.Background()
	require.NoError(t, f.sheet.SetAttribute(ctx, "brawn", 2, 1))

	res, err := f.sheet.RollAttribute(ctx, "brawn", roll.UpperHand)
	require.NoError(t, err)
	assert.Equal(t, 13, res.Total)
	assert.True(t, *res.Succeeded)

	require.Len(t, f.chat.posted, 1)
	msg := f.chat.posted[0]
	assert.Equal(t, "Mireille", msg.Speaker)
	assert.Equal(t, "Brawn Check (Upper Hand): 3", msg.Flavor)
	assert.Contains(t, msg.Content, "SUCCESS (13/9)")
}

func TestRolls_DoNotMutateOrPersist(t *testing.T) {
	spell := inventory.NewAdvancement("Bless")
	spell.Advancement.HasUses = true
	spell.Advancement.Uses = inventory.Uses{Current: 1, Max: 1}
	f := newFixture(t, rules.DefaultPolicy(), newRecord(spell), 3, 4)

	_, err := f.sheet.RollItem(context.Background(), spell.ID)
	require.NoError(t, err)
	got, _ := f.sheet.Item(spell.ID)
	assert.Equal(t, 1, got.Advancement.Uses.Current)
	assert.Empty(t, f.store.saved)
}

func TestRollWeapon_UnknownTypeAbortsWithoutMessage(t *testing.T) {
	axe := inventory.NewWeapon("Axe", "hand")
	f := newFixture(t, rules.DefaultPolicy(), newRecord(axe), 1, 2, 3)
	ctx := context.Background()

	res, err := f.sheet.RollWeapon(ctx, axe.ID, roll.Standard)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	require.Len(t, f.chat.posted, 1)

	_, err = f.sheet.RollWeapon(ctx, "missing", roll.Standard)
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)

	_, err = f.sheet.RollAttribute(ctx, "charisma", roll.Standard)
	var unknown *rules.UnknownTypeError
	assert.ErrorAs(t, err, &unknown)
	assert.Len(t, f.chat.posted, 1, "failed rolls post nothing")
}

func TestRollItem_InvalidFormulaSurfaces(t *testing.T) {
	odd := inventory.NewAdvancement("Odd")
	odd.Advancement.RollFormula = "two dice"
	f := newFixture(t, rules.DefaultPolicy(), newRecord(odd))

	_, err := f.sheet.RollItem(context.Background(), odd.ID)
	var bad *dice.InvalidFormulaError
	assert.ErrorAs(t, err, &bad)
	assert.Empty(t, f.chat.posted)
}

func TestRoll_ChatFailureIsLogged(t *testing.T) {
	f := newFixture(t, rules.DefaultPolicy(), newRecord(), 4, 5)
	f.chat.err = errors.New("sink closed")

	_, err := f.sheet.RollAttribute(context.Background(), "wit", roll.Standard)
	require.NoError(t, err)
	assert.Equal(t, 1, f.logs.FilterMessage("posting roll message failed").Len())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mireille.yaml")
	w := inventory.NewWeapon("Axe", "hand")
	mod := 2
	w.Weapon.CustomDamageMod = &mod
	rec := newRecord(w, inventory.NewConsequence("Limp", "injury"))
	rec.Character.Brawn = character.Score{Base: 3, Bonus: 1}

	require.NoError(t, sheet.FileStore{Path: path}.Save(context.Background(), rec))
	got, err := sheet.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Character, got.Character)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, *got.Items[0].Weapon.CustomDamageMod)
	assert.Equal(t, "injury", got.Items[1].Consequence.ConsequenceType)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := sheet.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "cannot read file")
}

func TestStores_SaveReachesEveryStoreAndJoinsErrors(t *testing.T) {
	failing := &fakeStore{err: errors.New("disk full")}
	ok := &fakeStore{}
	rec := newRecord()

	err := sheet.Stores{failing, ok}.Save(context.Background(), rec)
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, failing.saved, 1)
	assert.Len(t, ok.saved, 1)

	assert.NoError(t, sheet.Stores{ok}.Save(context.Background(), rec))
}
