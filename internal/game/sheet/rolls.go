package sheet

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/roll"
)

// Rolls never mutate the sheet. A failed roll returns its error and posts nothing.

// RollAttribute performs an attribute check.
func (s *Sheet) RollAttribute(ctx context.Context, name string, mode roll.Mode) (roll.Result, error) {
	res, err := s.resolver.AttributeCheck(s.Derived(), character.Attribute(name), mode)
	if err != nil {
		return roll.Result{}, err
	}
	s.post(ctx, res)
	return res, nil
}

// RollWeapon performs an attack with an owned weapon.
func (s *Sheet) RollWeapon(ctx context.Context, id string, mode roll.Mode) (roll.Result, error) {
	it, err := s.items.Get(id)
	if err != nil {
		return roll.Result{}, err
	}
	res, err := s.resolver.WeaponAttack(s.Derived(), it, mode)
	if err != nil {
		return roll.Result{}, err
	}
	s.post(ctx, res)
	return res, nil
}

// RollItem rolls an owned advancement's or consequence's formula. Limited uses are not
// consumed; see SpendUse.
func (s *Sheet) RollItem(ctx context.Context, id string) (roll.Result, error) {
	it, err := s.items.Get(id)
	if err != nil {
		return roll.Result{}, err
	}
	res, err := s.resolver.ItemRoll(s.Derived(), it)
	if err != nil {
		return roll.Result{}, err
	}
	s.post(ctx, res)
	return res, nil
}

func (s *Sheet) post(ctx context.Context, res roll.Result) {
	s.logger.Debug("roll resolved",
		zap.String("kind", string(res.Kind)),
		zap.String("formula", res.Formula),
		zap.Int("total", res.Total),
	)
	if s.chat == nil {
		return
	}
	if err := s.chat.Post(ctx, roll.Format(s.ch.Name, res)); err != nil {
		s.logger.Warn("posting roll message failed", zap.Error(err))
	}
}
