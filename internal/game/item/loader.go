package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TemplateDef defines an item template as loaded from YAML, before rarity
// scaling.
type TemplateDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Rarity      string            `yaml:"rarity"`
	Level       int               `yaml:"level"`
	Value       int               `yaml:"value"`
	Description string            `yaml:"description"`
	Durability  int               `yaml:"durability"`
	Stats       map[string]int    `yaml:"stats"`
	Attributes  map[string]string `yaml:"attributes"`
}

// Validate checks that the TemplateDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *TemplateDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !Type(d.Type).Valid() {
		errs = append(errs, fmt.Errorf("Type must be one of weapon, armor, potion, food, accessory, material, gold; got %q", d.Type))
	}
	if _, ok := TierByID(Rarity(d.Rarity)); !ok {
		errs = append(errs, fmt.Errorf("Rarity must be one of common, rare, epic, legendary, mythic; got %q", d.Rarity))
	}
	if d.Level < 1 {
		errs = append(errs, errors.New("Level must be >= 1"))
	}
	if d.Value < 0 {
		errs = append(errs, errors.New("Value must be >= 0"))
	}
	if d.Durability < 0 {
		errs = append(errs, errors.New("Durability must be >= 0"))
	}
	for name, v := range d.Stats {
		if v < 0 {
			errs = append(errs, fmt.Errorf("Stat %q must be >= 0; got %d", name, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("template validation failed: %v", errs)
	}
	return nil
}

// templateFile is the on-disk shape of an item content file: one or more
// template definitions per file.
type templateFile struct {
	Templates []*TemplateDef `yaml:"templates"`
}

// LoadTemplates reads all *.yaml and *.yml files from dir, parses each as a
// list of TemplateDefs, validates them, and returns the collected slice in
// file order.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid TemplateDefs or the first encountered error.
func LoadTemplates(dir string) ([]*TemplateDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTemplates: cannot read directory %q: %w", dir, err)
	}

	var defs []*TemplateDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot read file %q: %w", path, err)
		}
		var f templateFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot parse file %q: %w", path, err)
		}
		for _, d := range f.Templates {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadTemplates: invalid template in %q: %w", path, err)
			}
			defs = append(defs, d)
		}
	}
	return defs, nil
}

// LoadRegistry loads all template definitions from dir and registers the
// scaled templates into a fresh Registry.
//
// Postcondition: returns a populated Registry or the first encountered error.
func LoadRegistry(dir string) (*Registry, error) {
	defs, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, d := range defs {
		if err := reg.Register(NewTemplate(d)); err != nil {
			return nil, fmt.Errorf("LoadRegistry: %w", err)
		}
	}
	return reg, nil
}
