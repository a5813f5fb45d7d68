package character

// The edits below validate before writing; on error the character is unchanged.

// SetScore replaces the score of attribute a.
func (c *Character) SetScore(a Attribute, s Score) error {
	if err := ValidateScore(a, s); err != nil {
		return err
	}
	*c.scorePtr(a) = s
	return nil
}

// SetVigour replaces the Vigour pool.
func (c *Character) SetVigour(p Pool) error {
	if err := vigourCurrentBounds.check("vigour.current", p.Current); err != nil {
		return err
	}
	if err := nonNegative.check("vigour.max", p.Max); err != nil {
		return err
	}
	c.Vigour = p
	return nil
}

// SetGrip replaces the Grip base value.
func (c *Character) SetGrip(base int) error {
	if err := gripBounds.check("grip.base", base); err != nil {
		return err
	}
	c.Grip.Base = base
	return nil
}

// SetArmorBase replaces the base armor value.
func (c *Character) SetArmorBase(base int) error {
	if err := nonNegative.check("armor.base", base); err != nil {
		return err
	}
	c.Armor.Base = base
	return nil
}

// AdjustXP adds delta to XP, clamping at zero, and returns the new value.
func (c *Character) AdjustXP(delta int) int {
	c.XP = max(0, c.XP+delta)
	return c.XP
}

// AdjustAdvancement adds delta to advancement points, clamping at zero, and returns the
// new value.
func (c *Character) AdjustAdvancement(delta int) int {
	c.Advancement = max(0, c.Advancement+delta)
	return c.Advancement
}
