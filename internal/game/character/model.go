// Package character defines the Best Left Buried character model, its schema ranges,
// and the validated edits a player or GM may apply to it.
package character

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Attribute names one of the five main character traits.
type Attribute string

const (
	Brawn       Attribute = "brawn"
	Wit         Attribute = "wit"
	Will        Attribute = "will"
	Affluence   Attribute = "affluence"
	Observation Attribute = "observation"
)

// Attributes returns the main attributes in sheet order.
func Attributes() []Attribute {
	return []Attribute{Brawn, Wit, Will, Affluence, Observation}
}

// ParseAttribute converts s into an Attribute.
//
// Postcondition: returns *rules.UnknownTypeError when s is not an attribute name.
func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(s)
	if _, ok := scoreRanges[a]; !ok {
		return "", rules.Unknown("attribute", s)
	}
	return a, nil
}

// Label returns the capitalised display name, e.g. "Brawn".
func (a Attribute) Label() string {
	if a == "" {
		return ""
	}
	return string(a[0]-'a'+'A') + string(a[1:])
}

// Score is a base/bonus attribute pair.
type Score struct {
	Base  int `yaml:"base" json:"base"`
	Bonus int `yaml:"bonus" json:"bonus"`
}

// Total returns Base + Bonus.
func (s Score) Total() int { return s.Base + s.Bonus }

// Pool is a current/max resource such as Vigour.
type Pool struct {
	Current int `yaml:"current" json:"current"`
	Max     int `yaml:"max" json:"max"`
}

// Grip is the character's mental fortitude.
type Grip struct {
	Base int `yaml:"base" json:"base"`
}

// Armor holds the base armor value before equipment bonuses.
type Armor struct {
	Base int `yaml:"base" json:"base"`
}

// Character represents a player character's persistent state.
//
// Derived values (totals, armor total, encumbrance) are never stored here; see package derived.
type Character struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	Portrait  string `yaml:"portrait" json:"portrait"`
	Race      string `yaml:"race" json:"race"`
	Archetype string `yaml:"archetype" json:"archetype"`
	Attack    string `yaml:"attack" json:"attack"` // basic attack dice

	Brawn       Score `yaml:"brawn" json:"brawn"`
	Wit         Score `yaml:"wit" json:"wit"`
	Will        Score `yaml:"will" json:"will"`
	Affluence   Score `yaml:"affluence" json:"affluence"`
	Observation Score `yaml:"observation" json:"observation"`

	Vigour Pool  `yaml:"vigour" json:"vigour"`
	Grip   Grip  `yaml:"grip" json:"grip"`
	Armor  Armor `yaml:"armor" json:"armor"`

	XP          int `yaml:"xp" json:"xp"`
	Advancement int `yaml:"advancement" json:"advancement"`
}

// New constructs a Character with schema defaults and a fresh ID.
//
// Postcondition: the returned Character passes Validate.
func New(name string) *Character {
	return &Character{
		ID:        uuid.NewString(),
		Name:      name,
		Attack:    "1d6",
		Affluence: Score{Base: 10},
		Vigour:    Pool{Current: 10, Max: 10},
		Armor:     Armor{Base: rules.DefaultArmorBase},
	}
}

// Score returns the stored score for a.
//
// Postcondition: returns *rules.UnknownTypeError when a is not an attribute.
func (c *Character) Score(a Attribute) (Score, error) {
	p := c.scorePtr(a)
	if p == nil {
		return Score{}, rules.Unknown("attribute", string(a))
	}
	return *p, nil
}

func (c *Character) scorePtr(a Attribute) *Score {
	switch a {
	case Brawn:
		return &c.Brawn
	case Wit:
		return &c.Wit
	case Will:
		return &c.Will
	case Affluence:
		return &c.Affluence
	case Observation:
		return &c.Observation
	}
	return nil
}

// Clone returns a copy of c. Character has no reference fields, so the copy is deep.
func (c *Character) Clone() *Character {
	out := *c
	return &out
}
