package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML record from path.
//
// Postcondition: the record is parsed but not validated; New validates it.
func LoadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("LoadFile: cannot read file %q: %w", path, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("LoadFile: cannot parse file %q: %w", path, err)
	}
	return rec, nil
}

// FileStore saves records as YAML to a fixed path.
type FileStore struct {
	Path string
}

// Save writes rec to s.Path, replacing any previous content.
func (s FileStore) Save(_ context.Context, rec Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("FileStore: encoding record: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("FileStore: writing %q: %w", s.Path, err)
	}
	return nil
}

// Stores fans one Save out to several stores in order.
type Stores []Store

// Save calls every store, including those after a failure.
//
// Postcondition: returns the joined errors of all failed saves, or nil.
func (ss Stores) Save(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range ss {
		if err := s.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
