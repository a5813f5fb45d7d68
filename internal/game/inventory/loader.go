package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/blb/internal/game/catalog"
)

// Kit is a named list of starting items loaded from YAML.
type Kit struct {
	Name  string  `yaml:"name"`
	Items []*Item `yaml:"items"`
}

// LoadKits reads every *.yaml and *.yml file in dir as a Kit and validates its items
// against cat.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns kits keyed by name, or the first encountered error.
func LoadKits(dir string, cat *catalog.Catalog) (map[string]*Kit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadKits: cannot read directory %q: %w", dir, err)
	}
	kits := make(map[string]*Kit)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadKits: cannot read file %q: %w", path, err)
		}
		var k Kit
		if err := yaml.Unmarshal(data, &k); err != nil {
			return nil, fmt.Errorf("LoadKits: cannot parse file %q: %w", path, err)
		}
		if k.Name == "" {
			return nil, fmt.Errorf("LoadKits: kit in %q has no name", path)
		}
		if _, dup := kits[k.Name]; dup {
			return nil, fmt.Errorf("LoadKits: kit %q defined twice", k.Name)
		}
		for _, it := range k.Items {
			if err := it.Validate(cat); err != nil {
				return nil, fmt.Errorf("LoadKits: invalid item in %q: %w", path, err)
			}
		}
		kits[k.Name] = &k
	}
	return kits, nil
}

// Instantiate returns fresh copies of the kit items with new IDs, ready to add to a
// Collection.
func (k *Kit) Instantiate() []*Item {
	out := make([]*Item, 0, len(k.Items))
	for _, it := range k.Items {
		cp := it.Clone()
		cp.ID = ""
		out = append(out, cp)
	}
	return out
}

// KitNames returns the names of kits in sorted order.
func KitNames(kits map[string]*Kit) []string {
	names := make([]string, 0, len(kits))
	for n := range kits {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
