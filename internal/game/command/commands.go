// Package command provides the command registry, parser, and built-in command definitions
// for driving a character sheet from text input.
package command

// Categories for organizing commands.
const (
	CategorySheet     = "sheet"
	CategoryRoll      = "roll"
	CategoryInventory = "inventory"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to sheet operations.
const (
	HandlerShow        = "show"
	HandlerDerive      = "derive"
	HandlerItems       = "items"
	HandlerRollAttr    = "roll_attr"
	HandlerRollWeapon  = "roll_weapon"
	HandlerRollItem    = "roll_item"
	HandlerSet         = "set"
	HandlerVigour      = "vigour"
	HandlerGrip        = "grip"
	HandlerArmor       = "armor"
	HandlerXP          = "xp"
	HandlerAdvancement = "advancement"
	HandlerEquip       = "equip"
	HandlerUnequip     = "unequip"
	HandlerActivate    = "activate"
	HandlerDeactivate  = "deactivate"
	HandlerSpend       = "spend"
	HandlerRestore     = "restore"
	HandlerRemove      = "remove"
	HandlerHelp        = "help"
)

// Command defines a sheet command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "<attribute> [mode]".
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the sheet operation.
	Handler string
}

// BuiltinCommands returns all built-in sheet commands.
func BuiltinCommands() []Command {
	return []Command{
		// Sheet commands
		{Name: "show", Aliases: []string{"sheet"}, Help: "Show the character and derived stats", Category: CategorySheet, Handler: HandlerShow},
		{Name: "derive", Aliases: []string{"stats"}, Help: "Show derived stats only", Category: CategorySheet, Handler: HandlerDerive},
		{Name: "set", Usage: "<attribute> <base> [bonus]", Help: "Set an attribute's base and bonus", Category: CategorySheet, Handler: HandlerSet},
		{Name: "vigour", Aliases: []string{"vigor"}, Usage: "<current> <max>", Help: "Set current and maximum Vigour", Category: CategorySheet, Handler: HandlerVigour},
		{Name: "grip", Usage: "<base>", Help: "Set Grip", Category: CategorySheet, Handler: HandlerGrip},
		{Name: "armor", Aliases: []string{"armour"}, Usage: "<base>", Help: "Set base armor", Category: CategorySheet, Handler: HandlerArmor},
		{Name: "xp", Usage: "<delta>", Help: "Adjust experience, clamped at zero", Category: CategorySheet, Handler: HandlerXP},
		{Name: "advancement", Aliases: []string{"adv"}, Usage: "<delta>", Help: "Adjust advancement points, clamped at zero", Category: CategorySheet, Handler: HandlerAdvancement},

		// Roll commands
		{Name: "roll-attr", Aliases: []string{"roll", "check"}, Usage: "<attribute> [standard|upper_hand|against_odds]", Help: "Roll an attribute check", Category: CategoryRoll, Handler: HandlerRollAttr},
		{Name: "roll-weapon", Aliases: []string{"attack"}, Usage: "<item> [standard|upper_hand|against_odds]", Help: "Roll a weapon attack", Category: CategoryRoll, Handler: HandlerRollWeapon},
		{Name: "roll-item", Aliases: []string{"invoke"}, Usage: "<item>", Help: "Roll an advancement or consequence formula", Category: CategoryRoll, Handler: HandlerRollItem},

		// Inventory commands
		{Name: "items", Aliases: []string{"inv", "inventory"}, Help: "List owned items", Category: CategoryInventory, Handler: HandlerItems},
		{Name: "equip", Aliases: []string{"wear", "wield"}, Usage: "<item>", Help: "Equip a weapon, armor, or shield", Category: CategoryInventory, Handler: HandlerEquip},
		{Name: "unequip", Aliases: []string{"remove-armor"}, Usage: "<item>", Help: "Unequip an item", Category: CategoryInventory, Handler: HandlerUnequip},
		{Name: "activate", Usage: "<item>", Help: "Mark a consequence active", Category: CategoryInventory, Handler: HandlerActivate},
		{Name: "deactivate", Aliases: []string{"heal"}, Usage: "<item>", Help: "Mark a consequence inactive", Category: CategoryInventory, Handler: HandlerDeactivate},
		{Name: "spend", Aliases: []string{"use"}, Usage: "<item>", Help: "Spend one use of a limited-use item", Category: CategoryInventory, Handler: HandlerSpend},
		{Name: "restore", Aliases: []string{"rest"}, Usage: "<item>", Help: "Restore a limited-use item to full", Category: CategoryInventory, Handler: HandlerRestore},
		{Name: "drop", Aliases: []string{"discard"}, Usage: "<item>", Help: "Remove an item from the sheet", Category: CategoryInventory, Handler: HandlerRemove},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
