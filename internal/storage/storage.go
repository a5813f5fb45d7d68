// Package storage defines the character repository shared by the persistence backends.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/blb/internal/game/sheet"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a character whose ID is already stored.
var ErrCharacterExists = errors.New("character already exists")

// Summary identifies a stored character without loading its items.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Archetype string `json:"archetype"`
}

// Repository persists character records. Every implementation also satisfies sheet.Store,
// so a Sheet can save through it after each edit.
type Repository interface {
	// Create stores a new record.
	//
	// Postcondition: returns ErrCharacterExists when the character ID is already stored.
	Create(ctx context.Context, rec sheet.Record) error
	// Get loads a record by character ID.
	//
	// Postcondition: returns ErrCharacterNotFound when no record has that ID.
	Get(ctx context.Context, id string) (sheet.Record, error)
	// Save creates or replaces a record.
	Save(ctx context.Context, rec sheet.Record) error
	// Delete removes a record.
	//
	// Postcondition: returns ErrCharacterNotFound when no record has that ID.
	Delete(ctx context.Context, id string) error
	// List returns summaries of every stored character ordered by name.
	List(ctx context.Context) ([]Summary, error)
}

var _ sheet.Store = Repository(nil)

// ErrInvalidRecord is returned when a record cannot be stored because it has no character
// or no character ID.
var ErrInvalidRecord = errors.New("record has no character ID")

// CheckRecord reports ErrInvalidRecord for records that cannot be keyed.
func CheckRecord(rec sheet.Record) error {
	if rec.Character == nil || rec.Character.ID == "" {
		return ErrInvalidRecord
	}
	return nil
}

// SummaryOf builds the summary of a keyed record.
func SummaryOf(rec sheet.Record) Summary {
	return Summary{ID: rec.Character.ID, Name: rec.Character.Name, Archetype: rec.Character.Archetype}
}
