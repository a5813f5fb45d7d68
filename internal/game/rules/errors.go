// Package rules holds the game-wide constants, policy switches, and error
// taxonomy shared by the Best Left Buried rules engine.
package rules

import "fmt"

// SchemaValidationError reports a field that violates its declared range or
// enumeration. The edit that produced it must be rejected and the prior value kept.
type SchemaValidationError struct {
	// Field is the dotted path of the offending field, e.g. "brawn.base".
	Field string
	// Value is the rejected value.
	Value any
	// Reason describes the violated constraint.
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Invalid is shorthand for constructing a *SchemaValidationError.
func Invalid(field string, value any, format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// UnknownTypeError reports a lookup of a key absent from a type catalog.
//
// Display lookups recover locally with a neutral default; roll execution aborts.
type UnknownTypeError struct {
	// Catalog names the table that was searched, e.g. "weapon" or "attribute".
	Catalog string
	// Key is the missing key.
	Key string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q", e.Catalog, e.Key)
}

// Unknown is shorthand for constructing an *UnknownTypeError.
func Unknown(catalog, key string) *UnknownTypeError {
	return &UnknownTypeError{Catalog: catalog, Key: key}
}
