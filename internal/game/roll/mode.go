// Package roll resolves attribute checks, weapon attacks, and item formula rolls into
// structured results.
package roll

import (
	"strings"

	"github.com/cory-johannsen/blb/internal/game/rules"
)

// Mode selects the dice-keep strategy of a roll.
type Mode string

const (
	Standard    Mode = "standard"
	UpperHand   Mode = "upper_hand"
	AgainstOdds Mode = "against_odds"
)

// ParseMode converts s into a Mode. The empty string selects Standard; camelCase and
// hyphenated spellings are accepted.
//
// Postcondition: returns *rules.UnknownTypeError for any other value.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	switch norm {
	case "", "standard":
		return Standard, nil
	case "upperhand":
		return UpperHand, nil
	case "againstodds", "againsttheodds":
		return AgainstOdds, nil
	}
	return "", rules.Unknown("roll mode", s)
}

// Label returns the display name of m.
func (m Mode) Label() string {
	switch m {
	case UpperHand:
		return "Upper Hand"
	case AgainstOdds:
		return "Against the Odds"
	}
	return "Standard"
}

// diceSet maps each Mode to the dice term rolled under it.
type diceSet map[Mode]string

var (
	attributeDice = diceSet{Standard: "2d6", UpperHand: "3d6kh2", AgainstOdds: "3d6kl2"}
	weaponDice    = diceSet{Standard: "3d6", UpperHand: "4d6kh2", AgainstOdds: "4d6kl2"}
)

func (d diceSet) term(m Mode) (string, error) {
	t, ok := d[m]
	if !ok {
		return "", rules.Unknown("roll mode", string(m))
	}
	return t, nil
}

// Kind names the request that produced a Result.
type Kind string

const (
	KindAttribute Kind = "attribute"
	KindWeapon    Kind = "weapon"
	KindItem      Kind = "item"
)
