package command_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/command"
	"github.com/cory-johannsen/blb/internal/game/dice"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
	"github.com/cory-johannsen/blb/internal/game/sheet"
)

type harness struct {
	exec  *command.Executor
	sheet *sheet.Sheet
	out   *bytes.Buffer
	items map[string]*inventory.Item
}

func newHarness(t *testing.T, policy rules.Policy, faces ...int) *harness {
	t.Helper()
	axe := inventory.NewWeapon("Woodcutter's Axe", "heavy")
	mail := inventory.NewArmor("Rusty Mail", "basic")
	plate := inventory.NewArmor("Old Plate", "plate")
	shield := inventory.NewShield("Buckler")
	limp := inventory.NewConsequence("Limp", "injury")
	limp.Consequence.HasUses = true
	limp.Consequence.Uses = inventory.Uses{Current: 1, Max: 2}
	spell := inventory.NewAdvancement("Spark")
	spell.Advancement.RollFormula = "1d6"

	out := &bytes.Buffer{}
	s, err := sheet.New(sheet.Record{
		Character: character.New("Maud"),
		Items:     []*inventory.Item{axe, mail, plate, shield, limp, spell},
	}, sheet.Deps{
		Catalog: catalog.Default(),
		Policy:  policy,
		Engine:  dice.NewLoggedRoller(dice.NewSequenceSource(faces...), zap.NewNop()),
		Chat:    command.WriterSink{W: out},
	})
	require.NoError(t, err)
	return &harness{
		exec:  command.NewExecutor(command.DefaultRegistry(), out),
		sheet: s,
		out:   out,
		items: map[string]*inventory.Item{
			"axe": axe, "mail": mail, "plate": plate, "shield": shield, "limp": limp, "spell": spell,
		},
	}
}

func (h *harness) run(t *testing.T, line string) string {
	t.Helper()
	h.out.Reset()
	require.NoError(t, h.exec.Execute(context.Background(), h.sheet, line))
	return h.out.String()
}

func TestExecute_EmptyLine(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	assert.Equal(t, "", h.run(t, "   "))
}

func TestExecute_UnknownCommand(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	err := h.exec.Execute(context.Background(), h.sheet, "fly north")
	assert.ErrorIs(t, err, command.ErrUnknownCommand)
}

func TestExecute_Show(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	out := h.run(t, "show")
	assert.Contains(t, out, "Maud")
	assert.Contains(t, out, "Affluence")
	assert.Contains(t, out, "Armor: 7 (base 7, bonus +0)")
	assert.Contains(t, out, "XP: 0")
}

func TestExecute_RollAttribute(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy(), 2, 6, 4)
	out := h.run(t, "roll Brawn upper_hand")
	assert.Contains(t, out, "Maud: Brawn Check (Upper Hand): 0")
	assert.Contains(t, out, "Formula: 3d6kh2 + 0")
	assert.Contains(t, out, "Total: 10")
	assert.Contains(t, out, "SUCCESS (10/9)")
}

func TestExecute_RollAttributeSpelledOutMode(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy(), 2, 6, 4)
	out := h.run(t, "roll brawn against the odds")
	assert.Contains(t, out, "Maud: Brawn Check (Against the Odds): 0")
	assert.Contains(t, out, "Formula: 3d6kl2 + 0")
	assert.Contains(t, out, "Total: 6")
}

func TestExecute_RollAttributeErrors(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	ctx := context.Background()

	var ute *rules.UnknownTypeError
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "roll luck"), &ute)
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "roll brawn sideways"), &ute)

	var usage *command.UsageError
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "roll"), &usage)
	assert.Empty(t, h.out.String(), "failed rolls post nothing")
}

func TestExecute_RollWeaponByNameWithMode(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy(), 6, 1, 3, 4)
	out := h.run(t, "attack Woodcutter's Axe upper_hand")
	assert.Contains(t, out, "Woodcutter's Axe (Upper Hand)")
	assert.Contains(t, out, "Formula: 4d6kh2 + 1")
	assert.Contains(t, out, "Total: 11")
}

func TestExecute_RollWeaponByIDPrefix(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy(), 1, 2, 3)
	out := h.run(t, "roll-weapon "+h.items["axe"].ID[:8])
	assert.Contains(t, out, "Formula: 3d6 + 1")
	assert.Contains(t, out, "Total: 7")
}

func TestExecute_RollItem(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy(), 5)
	out := h.run(t, "invoke spark")
	assert.Contains(t, out, "Spark Roll")
	assert.Contains(t, out, "Total: 5")
}

func TestExecute_SheetEdits(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())

	assert.Equal(t, "brawn set to 3+1\n", h.run(t, "set Brawn 3 1"))
	assert.Equal(t, 4, h.sheet.Derived().Brawn)

	assert.Equal(t, "Vigour: 4/12\n", h.run(t, "vigour 4 12"))
	assert.Equal(t, "Grip: 2\n", h.run(t, "grip 2"))
	assert.Equal(t, "Armor: 9\n", h.run(t, "armor 9"))
	assert.Equal(t, "XP: 2\n", h.run(t, "xp +2"))
	assert.Equal(t, "XP: 0\n", h.run(t, "xp -5"))
	assert.Equal(t, "Advancement: 1\n", h.run(t, "adv 1"))
}

func TestExecute_RejectedEditKeepsValue(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	ctx := context.Background()

	var sve *rules.SchemaValidationError
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "set brawn 99"), &sve)
	assert.Equal(t, 0, h.sheet.Derived().Brawn)

	var usage *command.UsageError
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "grip lots"), &usage)
	assert.ErrorAs(t, h.exec.Execute(ctx, h.sheet, "vigour 3"), &usage)
}

func TestExecute_EquipExclusive(t *testing.T) {
	policy := rules.DefaultPolicy()
	policy.Equip = rules.EquipExclusive
	h := newHarness(t, policy)

	assert.Equal(t, "Equipped Rusty Mail\n", h.run(t, "wear rusty mail"))
	assert.Equal(t, "Equipped Old Plate\nUnequipped Rusty Mail\n", h.run(t, "wear Old Plate"))
	assert.Equal(t, "Equipped Buckler\n", h.run(t, "equip buckler"))
	assert.Equal(t, 7+2+1, h.sheet.Derived().ArmorTotal)

	assert.Equal(t, "Unequipped Old Plate\n", h.run(t, "unequip old plate"))
	assert.Equal(t, 7+1, h.sheet.Derived().ArmorTotal)
}

func TestExecute_EquipRejectsNonEquippable(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	var sve *rules.SchemaValidationError
	assert.ErrorAs(t, h.exec.Execute(context.Background(), h.sheet, "equip Limp"), &sve)
}

func TestExecute_ConsequenceLifecycle(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	ctx := context.Background()

	assert.Equal(t, "Limp: 0 uses left\n", h.run(t, "use limp"))
	assert.ErrorIs(t, h.exec.Execute(ctx, h.sheet, "use limp"), sheet.ErrNoUsesLeft)
	assert.Equal(t, "Limp restored\n", h.run(t, "rest limp"))
	assert.Contains(t, h.run(t, "items"), "Limp [uses 2/2]", "new consequences start inactive")
	assert.Equal(t, "Limp is active\n", h.run(t, "activate limp"))
	assert.Contains(t, h.run(t, "items"), "Limp [active, uses 2/2]")
	assert.Equal(t, "Limp is no longer active\n", h.run(t, "heal limp"))
}

func TestExecute_Drop(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	assert.Equal(t, "Dropped Buckler\n", h.run(t, "drop buckler"))
	assert.Len(t, h.sheet.Items(), 5)

	err := h.exec.Execute(context.Background(), h.sheet, "drop buckler")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestExecute_Help(t *testing.T) {
	h := newHarness(t, rules.DefaultPolicy())
	out := h.run(t, "help")
	assert.Contains(t, out, "Roll:")
	assert.Contains(t, out, "roll-attr <attribute>")
}

func TestResolveItem(t *testing.T) {
	a := &inventory.Item{ID: "abc123", Name: "Torch"}
	b := &inventory.Item{ID: "abd456", Name: "torch"}
	c := &inventory.Item{ID: "xyz789", Name: "Rope"}
	items := []*inventory.Item{a, b, c}

	got, err := command.ResolveItem(items, "abd456")
	require.NoError(t, err)
	assert.Same(t, b, got)

	got, err = command.ResolveItem(items, "xy")
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = command.ResolveItem(items, "ROPE")
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = command.ResolveItem(items, "ab")
	assert.ErrorIs(t, err, command.ErrAmbiguousItem)

	_, err = command.ResolveItem(items, "torch")
	assert.ErrorIs(t, err, command.ErrAmbiguousItem)

	_, err = command.ResolveItem(items, "lantern")
	assert.True(t, errors.Is(err, inventory.ErrItemNotFound))
}
