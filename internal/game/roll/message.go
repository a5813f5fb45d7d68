package roll

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Message is the chat payload a host posts for a roll.
type Message struct {
	Speaker string `json:"speaker"`
	Flavor  string `json:"flavor"`
	Content string `json:"content"`
}

// Format renders r as a plain-text Message attributed to speaker.
func Format(speaker string, r Result) Message {
	return Message{Speaker: speaker, Flavor: flavor(r), Content: content(r)}
}

func flavor(r Result) string {
	mode := ""
	if r.Mode != Standard && r.Mode != "" {
		mode = " (" + r.Mode.Label() + ")"
	}
	switch r.Kind {
	case KindAttribute:
		return fmt.Sprintf("%s Check%s: %d", r.Label, mode, r.AttributeValue)
	case KindWeapon:
		return fmt.Sprintf("%s%s: %s %d · Damage %+d", r.Label, mode, r.Attribute.Label(), r.AttributeValue, r.DamageMod)
	}
	return r.Label + " Roll"
}

func content(r Result) string {
	faces := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		if slices.Contains(r.Discarded, i) {
			faces[i] = "(" + strconv.Itoa(d) + ")"
		} else {
			faces[i] = strconv.Itoa(d)
		}
	}
	lines := []string{
		"Formula: " + r.Formula,
		"Dice: " + strings.Join(faces, " "),
		"Total: " + strconv.Itoa(r.Total),
	}
	if r.Succeeded != nil {
		verdict := "FAILURE"
		if *r.Succeeded {
			verdict = "SUCCESS"
		}
		lines = append(lines, fmt.Sprintf("%s (%d/%d)", verdict, r.Total, r.Threshold))
	}
	if r.Note != "" {
		lines = append(lines, "Note: "+r.Note)
	}
	return strings.Join(lines, "\n")
}
