// Package battle implements stage-scaled monster encounters: the turn loop,
// the damage formulas, and the victory payout.
package battle

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MonsterDef defines a monster's base stats as loaded from YAML, before
// stage scaling.
type MonsterDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	HP       int    `yaml:"hp"`
	Attack   int    `yaml:"attack"`
	Defense  int    `yaml:"defense"`
	Weakness string `yaml:"weakness"`
}

// Validate checks that the MonsterDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *MonsterDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.HP < 1 {
		errs = append(errs, errors.New("HP must be >= 1"))
	}
	if d.Attack < 0 {
		errs = append(errs, errors.New("Attack must be >= 0"))
	}
	if d.Defense < 0 {
		errs = append(errs, errors.New("Defense must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("monster validation failed: %v", errs)
	}
	return nil
}

// monsterFile is the on-disk shape of a monster content file.
type monsterFile struct {
	Monsters []*MonsterDef `yaml:"monsters"`
}

// LoadMonsters reads all *.yaml and *.yml files from dir, parses each as a
// list of MonsterDefs, validates them, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid MonsterDefs or the first encountered error.
func LoadMonsters(dir string) ([]*MonsterDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadMonsters: cannot read directory %q: %w", dir, err)
	}

	var defs []*MonsterDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadMonsters: cannot read file %q: %w", path, err)
		}
		var f monsterFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("LoadMonsters: cannot parse file %q: %w", path, err)
		}
		for _, d := range f.Monsters {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadMonsters: invalid monster in %q: %w", path, err)
			}
			defs = append(defs, d)
		}
	}
	return defs, nil
}

// Monster is one combatant in an encounter, with base stats already scaled
// for the stage.
type Monster struct {
	def     *MonsterDef
	hp      int
	maxHP   int
	attack  int
	defense int
	status  string
}

// newMonster builds a stage-scaled combatant from def. Every base stat is
// multiplied by 1 + stage*0.1 and floored.
func newMonster(def *MonsterDef, stage int) *Monster {
	scale := 1.0 + float64(stage)*0.1
	hp := int(math.Floor(float64(def.HP) * scale))
	return &Monster{
		def:     def,
		hp:      hp,
		maxHP:   hp,
		attack:  int(math.Floor(float64(def.Attack) * scale)),
		defense: int(math.Floor(float64(def.Defense) * scale)),
	}
}

// ID returns the monster's definition id.
func (m *Monster) ID() string { return m.def.ID }

// Name returns the monster's display name.
func (m *Monster) Name() string { return m.def.Name }

// Weakness returns the monster's elemental weakness tag.
func (m *Monster) Weakness() string { return m.def.Weakness }

// HP returns current hit points.
func (m *Monster) HP() int { return m.hp }

// MaxHP returns the scaled hit point cap.
func (m *Monster) MaxHP() int { return m.maxHP }

// Attack returns the scaled attack stat.
func (m *Monster) Attack() int { return m.attack }

// Defense returns the scaled defense stat.
func (m *Monster) Defense() int { return m.defense }

// Status returns the display-only status tag, empty when none.
func (m *Monster) Status() string { return m.status }

// Alive reports whether the monster can still act.
func (m *Monster) Alive() bool { return m.hp > 0 }

// takeDamage reduces HP by n, never below 0.
func (m *Monster) takeDamage(n int) {
	m.hp -= n
	if m.hp < 0 {
		m.hp = 0
	}
}
