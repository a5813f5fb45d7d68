package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/derived"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/roll"
)

// ShortIDLength is how many leading ID characters the item list shows.
const ShortIDLength = 8

// RenderSheet formats a character and its derived stats as plain text.
func RenderSheet(ch *character.Character, st derived.Stats) string {
	var b strings.Builder

	b.WriteString(ch.Name)
	if ch.Archetype != "" || ch.Race != "" {
		b.WriteString(" (")
		b.WriteString(strings.TrimSpace(ch.Race + " " + ch.Archetype))
		b.WriteString(")")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "ID: %s\n", ch.ID)
	fmt.Fprintf(&b, "Attack: %s\n", ch.Attack)
	for _, a := range character.Attributes() {
		sc, _ := ch.Score(a)
		fmt.Fprintf(&b, "  %-12s %3d  (base %d, bonus %+d)\n", a.Label(), st.Total(a), sc.Base, sc.Bonus)
	}
	b.WriteString(RenderDerived(st))
	fmt.Fprintf(&b, "XP: %d  Advancement: %d\n", ch.XP, ch.Advancement)
	return b.String()
}

// RenderDerived formats the pools, armor, and encumbrance of st.
func RenderDerived(st derived.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vigour: %d/%d  Grip: %d\n", st.Vigour.Current, st.Vigour.Max, st.Grip)
	fmt.Fprintf(&b, "Armor: %d (base %d, bonus %+d)\n", st.ArmorTotal, st.ArmorBase, st.ArmorBonus)
	fmt.Fprintf(&b, "Encumbrance: %d/%d", st.EncumbranceCurrent, st.EncumbranceMax)
	if st.OverEncumbered {
		b.WriteString(" OVER-ENCUMBERED")
	}
	b.WriteString("\n")
	if st.AffluenceCarried > 0 {
		fmt.Fprintf(&b, "Loot value: %d\n", st.AffluenceCarried)
	}
	return b.String()
}

// RenderItems formats one line per item: short ID, kind, name, and state flags.
func RenderItems(items []*inventory.Item) string {
	if len(items) == 0 {
		return "No items.\n"
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%-*s  %-11s  %s", ShortIDLength, shortID(it.ID), it.Kind, it.Name)
		if flags := itemFlags(it); len(flags) > 0 {
			b.WriteString(" [")
			b.WriteString(strings.Join(flags, ", "))
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func itemFlags(it *inventory.Item) []string {
	var flags []string
	if it.Equipped() {
		flags = append(flags, "equipped")
	}
	if it.Kind == inventory.KindConsequence && it.Consequence != nil && it.Consequence.Active {
		flags = append(flags, "active")
	}
	if uses, ok := it.LimitedUses(); ok {
		flags = append(flags, fmt.Sprintf("uses %d/%d", uses.Current, uses.Max))
	}
	if slots := it.SlotValue(); slots > 0 {
		flags = append(flags, fmt.Sprintf("slots %d", slots))
	}
	return flags
}

func shortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// RenderMessage formats a roll message as chat text.
func RenderMessage(msg roll.Message) string {
	var b strings.Builder
	if msg.Speaker != "" {
		b.WriteString(msg.Speaker)
		b.WriteString(": ")
	}
	b.WriteString(msg.Flavor)
	b.WriteString("\n")
	b.WriteString(msg.Content)
	if !strings.HasSuffix(msg.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(r *Registry) string {
	var b strings.Builder
	cats := r.CommandsByCategory()
	for _, cat := range []string{CategorySheet, CategoryRoll, CategoryInventory, CategorySystem} {
		cmds := cats[cat]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(cat[:1])+cat[1:])
		for _, cmd := range cmds {
			usage := cmd.Name
			if cmd.Usage != "" {
				usage += " " + cmd.Usage
			}
			fmt.Fprintf(&b, "  %-48s %s\n", usage, cmd.Help)
		}
	}
	return b.String()
}
