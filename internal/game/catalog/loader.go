package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads every *.yaml and *.yml file in dir, merges their tables in file-name order,
// and builds a Catalog from the result.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a validated Catalog or the first read, parse, or validation error.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: cannot read directory %q: %w", dir, err)
	}

	var merged Tables
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog.Load: cannot read file %q: %w", path, err)
		}
		var t Tables
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("catalog.Load: cannot parse file %q: %w", path, err)
		}
		merged.Weapons = append(merged.Weapons, t.Weapons...)
		merged.Armors = append(merged.Armors, t.Armors...)
		merged.Advancements = append(merged.Advancements, t.Advancements...)
		merged.Consequences = append(merged.Consequences, t.Consequences...)
		merged.Loot = append(merged.Loot, t.Loot...)
	}

	c, err := New(merged)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %q: %w", dir, err)
	}
	return c, nil
}
