package command

import (
	"strings"

	"github.com/cory-johannsen/blb/internal/game/roll"
)

// maxModeWords is the longest roll mode phrase, "against the odds".
const maxModeWords = 3

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, spacing preserved.
	RawArgs string
	// Subject is RawArgs without a trailing roll mode phrase.
	Subject string
	// Mode is the trailing roll mode, or empty when the line names none.
	Mode roll.Mode
}

// RollMode returns Mode, defaulting to roll.Standard.
func (p ParseResult) RollMode() roll.Mode {
	if p.Mode == "" {
		return roll.Standard
	}
	return p.Mode
}

// Parse splits a text line into a command and arguments, and splits a trailing roll mode
// ("upper_hand", "upper hand", "Against the Odds") off the arguments.
//
// Postcondition: Returns a ParseResult. If line is empty, Command is empty. A mode is only
// recognized after at least one other argument word.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	cmd := strings.ToLower(line[:spaceIdx])
	rest := strings.TrimSpace(line[spaceIdx+1:])

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	pr := ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
		Subject: rest,
	}
	if subject, mode, ok := splitMode(args); ok {
		pr.Subject = subject
		pr.Mode = mode
	}
	return pr
}

// splitMode looks for the longest trailing phrase of args naming a roll mode.
func splitMode(args []string) (string, roll.Mode, bool) {
	for n := min(maxModeWords, len(args)-1); n >= 1; n-- {
		tail := args[len(args)-n:]
		m, err := roll.ParseMode(strings.Join(tail, " "))
		if err != nil {
			continue
		}
		return strings.Join(args[:len(args)-n], " "), m, true
	}
	return "", "", false
}
