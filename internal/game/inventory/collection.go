package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/rules"
)

// ErrItemNotFound is returned when no owned item carries the requested ID.
var ErrItemNotFound = errors.New("item not found")

// Collection is the ordered set of items owned by one character.
//
// Collection is not safe for concurrent use; callers serialize mutations per character.
type Collection struct {
	catalog *catalog.Catalog
	rule    EquipRule
	items   []*Item
}

// NewCollection builds a Collection from items, validating each against cat. Every change
// that leaves an item equipped goes through rule; a nil rule is Unrestricted.
//
// Precondition: cat is non-nil.
// Postcondition: on error no Collection is returned; on success the Collection holds
// clones of items in the given order, with equipped items added later displacing earlier
// ones under rule.
func NewCollection(cat *catalog.Catalog, rule EquipRule, items ...*Item) (*Collection, error) {
	if rule == nil {
		rule = Unrestricted{}
	}
	c := &Collection{catalog: cat, rule: rule}
	for _, it := range items {
		if _, err := c.Add(it); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a clone of it. An empty ID is replaced with a fresh UUID. An item that
// arrives equipped displaces what the rule says it conflicts with.
//
// Postcondition: on error the collection is unchanged; on success the stored item's ID is
// returned.
func (c *Collection) Add(it *Item) (string, error) {
	cp := it.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if c.index(cp.ID) >= 0 {
		return "", fmt.Errorf("inventory: item ID %q already present", cp.ID)
	}
	if err := cp.Validate(c.catalog); err != nil {
		return "", err
	}
	if cp.Equipped() {
		c.displace(cp)
	}
	c.items = append(c.items, cp)
	return cp.ID, nil
}

// Remove deletes the item with the given ID.
//
// Postcondition: returns ErrItemNotFound when id is absent.
func (c *Collection) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("inventory: remove %q: %w", id, ErrItemNotFound)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Get returns a copy of the item with the given ID.
func (c *Collection) Get(id string) (*Item, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("inventory: get %q: %w", id, ErrItemNotFound)
	}
	return c.items[i].Clone(), nil
}

// Items returns copies of every item in collection order.
//
// Postcondition: mutating the result does not affect the collection.
func (c *Collection) Items() []*Item {
	out := make([]*Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of owned items.
func (c *Collection) Len() int { return len(c.items) }

// Update applies fn to a copy of the item and stores the copy if it still validates. When
// fn equips the item or moves an equipped item to another equip category, the rule is
// applied as if the item had just been equipped.
//
// Postcondition: when fn or validation fails, or fn changes the ID, nothing changes.
func (c *Collection) Update(id string, fn func(*Item) error) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("inventory: update %q: %w", id, ErrItemNotFound)
	}
	cp := c.items[i].Clone()
	if err := fn(cp); err != nil {
		return err
	}
	if cp.ID != id {
		return rules.Invalid("id", cp.ID, "must not change (was %q)", id)
	}
	if err := cp.Validate(c.catalog); err != nil {
		return err
	}
	old := c.items[i]
	if cp.Equipped() && (!old.Equipped() || EquipCategory(old) != EquipCategory(cp)) {
		c.displace(cp)
	}
	c.items[i] = cp
	return nil
}

// SetEquipped sets the equipped flag of the item with the given ID, applying the rule when
// equipping.
//
// Postcondition: returns the IDs of items the rule unequipped. On error nothing changes.
func (c *Collection) SetEquipped(id string, equipped bool) ([]string, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("inventory: equip %q: %w", id, ErrItemNotFound)
	}
	target := c.items[i]
	if !target.Equippable() {
		return nil, rules.Invalid("equipped", equipped, "%s items cannot be equipped", target.Kind)
	}
	var displaced []string
	if equipped {
		displaced = c.displace(target)
	}
	target.setEquipped(equipped)
	return displaced, nil
}

// displace unequips the stored items the rule says conflict with target.
func (c *Collection) displace(target *Item) []string {
	displaced := c.rule.Displaced(target, c.items)
	for _, other := range displaced {
		c.items[c.index(other)].setEquipped(false)
	}
	return displaced
}

func (c *Collection) index(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
