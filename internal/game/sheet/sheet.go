// Package sheet is the per-character aggregate a host drives. It owns the character and
// its items, caches the derived view, runs rolls, and hands results to persistence and
// chat collaborators.
package sheet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/derived"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/roll"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

// ErrNoUsesLeft is returned when spending a use of an exhausted item.
var ErrNoUsesLeft = errors.New("no uses left")

// Record is the persisted form of a sheet: the character and its owned items in order.
type Record struct {
	Character *character.Character `yaml:"character" json:"character"`
	Items     []*inventory.Item    `yaml:"items" json:"items"`
}

// Store persists records. Save is fire-and-forget from the sheet's point of view.
type Store interface {
	Save(ctx context.Context, rec Record) error
}

// ChatSink receives roll messages.
type ChatSink interface {
	Post(ctx context.Context, msg roll.Message) error
}

// Deps are the collaborators a Sheet is built with. Store and Chat may be nil.
type Deps struct {
	Catalog *catalog.Catalog
	Policy  rules.Policy
	Engine  roll.Engine
	Store   Store
	Chat    ChatSink
	Logger  *zap.Logger
}

// Sheet is not safe for concurrent use; the host serializes actions per character.
type Sheet struct {
	ch       *character.Character
	items    *inventory.Collection
	calc     *derived.Calculator
	resolver *roll.Resolver
	store    Store
	chat     ChatSink
	logger   *zap.Logger

	cached derived.Stats
	dirty  bool
}

// New builds a Sheet over rec.
//
// Precondition: deps.Catalog and deps.Engine are non-nil.
// Postcondition: returns an error if the character or any item fails validation.
func New(rec Record, deps Deps) (*Sheet, error) {
	if rec.Character == nil {
		return nil, errors.New("sheet: record has no character")
	}
	if err := rec.Character.Validate(); err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	policy := deps.Policy
	if policy.ArmorBonus == nil {
		policy.ArmorBonus = deps.Catalog.ArmorBonusTable()
	}
	// Loaded items pass through the equip rule in record order, so a record with
	// conflicting equipped items keeps the last one.
	items, err := inventory.NewCollection(deps.Catalog, inventory.RuleFor(policy.Equip), rec.Items...)
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sheet{
		ch:       rec.Character.Clone(),
		items:    items,
		calc:     derived.NewCalculator(policy.ArmorBonus),
		resolver: roll.NewResolver(deps.Engine, deps.Catalog, policy),
		store:    deps.Store,
		chat:     deps.Chat,
		logger:   logger.With(zap.String("character_id", rec.Character.ID)),
		dirty:    true,
	}, nil
}

// ID returns the character ID.
func (s *Sheet) ID() string { return s.ch.ID }

// Character returns a copy of the character.
func (s *Sheet) Character() *character.Character { return s.ch.Clone() }

// Items returns copies of the owned items in order.
func (s *Sheet) Items() []*inventory.Item { return s.items.Items() }

// Item returns a copy of one owned item.
func (s *Sheet) Item(id string) (*inventory.Item, error) { return s.items.Get(id) }

// Record returns a copy of the sheet's persistent state.
func (s *Sheet) Record() Record {
	return Record{Character: s.ch.Clone(), Items: s.items.Items()}
}

// Derived returns the derived view, recomputing it when any input changed since the
// last read.
func (s *Sheet) Derived() derived.Stats {
	if s.dirty {
		s.cached = s.calc.Compute(s.ch, s.items.Items())
		s.dirty = false
	}
	return s.cached
}

// changed invalidates the derived cache, logs the mutation, and persists the record.
func (s *Sheet) changed(ctx context.Context, op string, fields ...zap.Field) {
	s.dirty = true
	s.logger.Debug("sheet updated", append([]zap.Field{zap.String("op", op)}, fields...)...)
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.Record()); err != nil {
		s.logger.Warn("saving character failed", zap.String("op", op), zap.Error(err))
	}
}
