package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/roll"
	"github.com/cory-johannsen/blb/internal/game/sheet"
)

// ErrUnknownCommand is returned for input that resolves to no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// ErrAmbiguousItem is returned when an item reference matches more than one item.
var ErrAmbiguousItem = errors.New("ambiguous item reference")

// UsageError reports arguments that do not fit a command's usage.
type UsageError struct {
	Command *Command
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s; usage: %s %s", e.Reason, e.Command.Name, e.Command.Usage)
}

// Executor runs parsed text commands against a sheet and writes their text output.
// Roll output is not written here: the sheet posts it to its chat sink.
type Executor struct {
	registry *Registry
	out      io.Writer
}

// NewExecutor creates an Executor resolving commands in reg and writing to out.
//
// Precondition: reg and out must be non-nil.
func NewExecutor(reg *Registry, out io.Writer) *Executor {
	return &Executor{registry: reg, out: out}
}

// Execute parses and runs one line against s.
//
// Postcondition: An empty line is a no-op. Unknown commands return ErrUnknownCommand,
// bad arguments a *UsageError, and sheet errors are returned unchanged.
func (e *Executor) Execute(ctx context.Context, s *sheet.Sheet, line string) error {
	pr := Parse(line)
	if pr.Command == "" {
		return nil
	}
	cmd, ok := e.registry.Resolve(pr.Command)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, pr.Command)
	}
	return e.dispatch(ctx, s, cmd, pr)
}

func (e *Executor) dispatch(ctx context.Context, s *sheet.Sheet, cmd *Command, pr ParseResult) error {
	args := pr.Args
	switch cmd.Handler {
	case HandlerShow:
		return e.print(RenderSheet(s.Character(), s.Derived()))
	case HandlerDerive:
		return e.print(RenderDerived(s.Derived()))
	case HandlerItems:
		return e.print(RenderItems(s.Items()))
	case HandlerHelp:
		return e.print(RenderHelp(e.registry))

	case HandlerRollAttr:
		fields := strings.Fields(pr.Subject)
		switch {
		case len(fields) == 2:
			// A second word that is not a mode is reported as an unknown mode.
			if _, err := roll.ParseMode(fields[1]); err != nil {
				return err
			}
			return usage(cmd, "expected an attribute and an optional mode")
		case len(fields) != 1:
			return usage(cmd, "expected an attribute and an optional mode")
		}
		_, err := s.RollAttribute(ctx, strings.ToLower(fields[0]), pr.RollMode())
		return err
	case HandlerRollWeapon:
		if pr.Subject == "" {
			return usage(cmd, "expected an item and an optional mode")
		}
		it, err := ResolveItem(s.Items(), pr.Subject)
		if err != nil {
			return err
		}
		_, err = s.RollWeapon(ctx, it.ID, pr.RollMode())
		return err
	case HandlerRollItem:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		_, err = s.RollItem(ctx, it.ID)
		return err

	case HandlerSet:
		if len(args) < 2 || len(args) > 3 {
			return usage(cmd, "expected an attribute, a base, and an optional bonus")
		}
		nums, err := ints(cmd, args[1:])
		if err != nil {
			return err
		}
		bonus := 0
		if len(nums) == 2 {
			bonus = nums[1]
		}
		if err := s.SetAttribute(ctx, strings.ToLower(args[0]), nums[0], bonus); err != nil {
			return err
		}
		return e.printf("%s set to %d%+d\n", strings.ToLower(args[0]), nums[0], bonus)
	case HandlerVigour:
		nums, err := exactInts(cmd, args, 2)
		if err != nil {
			return err
		}
		if err := s.SetVigour(ctx, nums[0], nums[1]); err != nil {
			return err
		}
		return e.printf("Vigour: %d/%d\n", nums[0], nums[1])
	case HandlerGrip:
		nums, err := exactInts(cmd, args, 1)
		if err != nil {
			return err
		}
		if err := s.SetGrip(ctx, nums[0]); err != nil {
			return err
		}
		return e.printf("Grip: %d\n", nums[0])
	case HandlerArmor:
		nums, err := exactInts(cmd, args, 1)
		if err != nil {
			return err
		}
		if err := s.SetArmorBase(ctx, nums[0]); err != nil {
			return err
		}
		return e.printf("Armor: %d\n", s.Derived().ArmorTotal)
	case HandlerXP:
		nums, err := exactInts(cmd, args, 1)
		if err != nil {
			return err
		}
		return e.printf("XP: %d\n", s.AdjustXP(ctx, nums[0]))
	case HandlerAdvancement:
		nums, err := exactInts(cmd, args, 1)
		if err != nil {
			return err
		}
		return e.printf("Advancement: %d\n", s.AdjustAdvancement(ctx, nums[0]))

	case HandlerEquip, HandlerUnequip:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		equip := cmd.Handler == HandlerEquip
		displaced, err := s.SetEquipped(ctx, it.ID, equip)
		if err != nil {
			return err
		}
		if !equip {
			return e.printf("Unequipped %s\n", it.Name)
		}
		if err := e.printf("Equipped %s\n", it.Name); err != nil {
			return err
		}
		for _, id := range displaced {
			if other, err := s.Item(id); err == nil {
				if err := e.printf("Unequipped %s\n", other.Name); err != nil {
					return err
				}
			}
		}
		return nil
	case HandlerActivate, HandlerDeactivate:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		active := cmd.Handler == HandlerActivate
		if err := s.SetActive(ctx, it.ID, active); err != nil {
			return err
		}
		if active {
			return e.printf("%s is active\n", it.Name)
		}
		return e.printf("%s is no longer active\n", it.Name)
	case HandlerSpend:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		left, err := s.SpendUse(ctx, it.ID)
		if err != nil {
			return err
		}
		return e.printf("%s: %d uses left\n", it.Name, left)
	case HandlerRestore:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		if err := s.RestoreUses(ctx, it.ID); err != nil {
			return err
		}
		return e.printf("%s restored\n", it.Name)
	case HandlerRemove:
		it, err := e.item(cmd, s, pr)
		if err != nil {
			return err
		}
		if err := s.RemoveItem(ctx, it.ID); err != nil {
			return err
		}
		return e.printf("Dropped %s\n", it.Name)
	}
	return fmt.Errorf("command %q has no handler %q", cmd.Name, cmd.Handler)
}

// item resolves the whole argument text as one item reference, so names may contain spaces.
func (e *Executor) item(cmd *Command, s *sheet.Sheet, pr ParseResult) (*inventory.Item, error) {
	if pr.RawArgs == "" {
		return nil, usage(cmd, "expected an item")
	}
	return ResolveItem(s.Items(), pr.RawArgs)
}

// ResolveItem finds the item ref names: an exact ID, a unique ID prefix, or a unique
// case-insensitive name.
//
// Postcondition: Returns inventory.ErrItemNotFound or ErrAmbiguousItem when ref does not
// pick out exactly one item.
func ResolveItem(items []*inventory.Item, ref string) (*inventory.Item, error) {
	ref = strings.TrimSpace(ref)
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
	}
	var byPrefix, byName []*inventory.Item
	for _, it := range items {
		if strings.HasPrefix(it.ID, ref) {
			byPrefix = append(byPrefix, it)
		}
		if strings.EqualFold(it.Name, ref) {
			byName = append(byName, it)
		}
	}
	for _, matches := range [][]*inventory.Item{byPrefix, byName} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, fmt.Errorf("%w: %q matches %d items", ErrAmbiguousItem, ref, len(matches))
		}
	}
	return nil, fmt.Errorf("%w: %q", inventory.ErrItemNotFound, ref)
}

func usage(cmd *Command, reason string) error {
	return &UsageError{Command: cmd, Reason: reason}
}

func exactInts(cmd *Command, args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, usage(cmd, fmt.Sprintf("expected %d number(s)", n))
	}
	return ints(cmd, args)
}

func ints(cmd *Command, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, usage(cmd, fmt.Sprintf("%q is not a number", a))
		}
		out[i] = n
	}
	return out, nil
}

func (e *Executor) print(s string) error {
	_, err := io.WriteString(e.out, s)
	return err
}

func (e *Executor) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(e.out, format, args...)
	return err
}

// WriterSink is a sheet.ChatSink that renders roll messages to a writer.
type WriterSink struct {
	W io.Writer
}

var _ sheet.ChatSink = WriterSink{}

// Post writes the rendered message.
func (w WriterSink) Post(_ context.Context, msg roll.Message) error {
	_, err := io.WriteString(w.W, RenderMessage(msg))
	return err
}
