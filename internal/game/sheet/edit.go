package sheet

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Every edit below rejects invalid input with the prior state retained.

// SetAttribute replaces the base and bonus of the named attribute.
func (s *Sheet) SetAttribute(ctx context.Context, name string, base, bonus int) error {
	attr, err := character.ParseAttribute(name)
	if err != nil {
		return err
	}
	if err := s.ch.SetScore(attr, character.Score{Base: base, Bonus: bonus}); err != nil {
		return err
	}
	s.changed(ctx, "set_attribute", zap.String("attribute", name), zap.Int("base", base), zap.Int("bonus", bonus))
	return nil
}

// SetVigour replaces the Vigour pool.
func (s *Sheet) SetVigour(ctx context.Context, current, maximum int) error {
	if err := s.ch.SetVigour(character.Pool{Current: current, Max: maximum}); err != nil {
		return err
	}
	s.changed(ctx, "set_vigour", zap.Int("current", current), zap.Int("max", maximum))
	return nil
}

// SetGrip replaces the Grip base value.
func (s *Sheet) SetGrip(ctx context.Context, base int) error {
	if err := s.ch.SetGrip(base); err != nil {
		return err
	}
	s.changed(ctx, "set_grip", zap.Int("base", base))
	return nil
}

// SetArmorBase replaces the base armor value.
func (s *Sheet) SetArmorBase(ctx context.Context, base int) error {
	if err := s.ch.SetArmorBase(base); err != nil {
		return err
	}
	s.changed(ctx, "set_armor_base", zap.Int("base", base))
	return nil
}

// AdjustXP adds delta to XP, clamping at zero.
func (s *Sheet) AdjustXP(ctx context.Context, delta int) int {
	xp := s.ch.AdjustXP(delta)
	s.changed(ctx, "adjust_xp", zap.Int("xp", xp))
	return xp
}

// AdjustAdvancement adds delta to advancement points, clamping at zero.
func (s *Sheet) AdjustAdvancement(ctx context.Context, delta int) int {
	adv := s.ch.AdjustAdvancement(delta)
	s.changed(ctx, "adjust_advancement", zap.Int("advancement", adv))
	return adv
}

// AddItem adds a copy of it and returns the stored ID.
func (s *Sheet) AddItem(ctx context.Context, it *inventory.Item) (string, error) {
	id, err := s.items.Add(it)
	if err != nil {
		return "", err
	}
	s.changed(ctx, "add_item", zap.String("item_id", id), zap.String("kind", string(it.Kind)))
	return id, nil
}

// RemoveItem deletes an owned item.
func (s *Sheet) RemoveItem(ctx context.Context, id string) error {
	if err := s.items.Remove(id); err != nil {
		return err
	}
	s.changed(ctx, "remove_item", zap.String("item_id", id))
	return nil
}

// UpdateItem applies fn to a copy of the item; see inventory.Collection.Update.
func (s *Sheet) UpdateItem(ctx context.Context, id string, fn func(*inventory.Item) error) error {
	if err := s.items.Update(id, fn); err != nil {
		return err
	}
	s.changed(ctx, "update_item", zap.String("item_id", id))
	return nil
}

// SetEquipped equips or unequips an item under the configured equip policy and returns
// the IDs of items the policy unequipped.
func (s *Sheet) SetEquipped(ctx context.Context, id string, equipped bool) ([]string, error) {
	displaced, err := s.items.SetEquipped(id, equipped)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "set_equipped", zap.String("item_id", id), zap.Bool("equipped", equipped),
		zap.Strings("displaced", displaced))
	return displaced, nil
}

// SetActive toggles a consequence.
func (s *Sheet) SetActive(ctx context.Context, id string, active bool) error {
	err := s.items.Update(id, func(it *inventory.Item) error {
		if it.Kind != inventory.KindConsequence {
			return rules.Invalid("active", active, "%s items cannot be activated", it.Kind)
		}
		it.Consequence.Active = active
		return nil
	})
	if err != nil {
		return err
	}
	s.changed(ctx, "set_active", zap.String("item_id", id), zap.Bool("active", active))
	return nil
}

// SpendUse consumes one use of a limited-use item and returns the uses left.
//
// Postcondition: returns ErrNoUsesLeft when the current uses are already zero.
func (s *Sheet) SpendUse(ctx context.Context, id string) (int, error) {
	var left int
	err := s.items.Update(id, func(it *inventory.Item) error {
		uses, ok := it.LimitedUses()
		if !ok {
			return rules.Invalid("has_uses", false, "item %q does not track uses", it.Name)
		}
		if uses.Current <= 0 {
			return ErrNoUsesLeft
		}
		uses.Current--
		left = uses.Current
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.changed(ctx, "spend_use", zap.String("item_id", id), zap.Int("uses_left", left))
	return left, nil
}

// RestoreUses refills a limited-use item to its maximum.
func (s *Sheet) RestoreUses(ctx context.Context, id string) error {
	err := s.items.Update(id, func(it *inventory.Item) error {
		uses, ok := it.LimitedUses()
		if !ok {
			return rules.Invalid("has_uses", false, "item %q does not track uses", it.Name)
		}
		uses.Current = uses.Max
		return nil
	})
	if err != nil {
		return err
	}
	s.changed(ctx, "restore_uses", zap.String("item_id", id))
	return nil
}
