// Package quest tracks quest definitions, progress, and reward claims.
package quest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Status is the lifecycle state of a quest.
type Status string

// Quest statuses.
const (
	StatusAvailable  Status = "available"
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusAvailable:  true,
	StatusLocked:     true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// Requirement kinds.
const (
	RequireItem = "item"
	RequireKill = "kill"
)

// RequirementDef is what a quest asks for: holding items or killing monsters.
type RequirementDef struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Count  int    `yaml:"count"`
}

// RewardItemDef is one item granted on claim.
type RewardItemDef struct {
	TemplateID string `yaml:"template_id"`
	Count      int    `yaml:"count"`
}

// RewardDef is the payout of a completed quest.
type RewardDef struct {
	Exp   int             `yaml:"exp"`
	Gold  int             `yaml:"gold"`
	Items []RewardItemDef `yaml:"items"`
}

// QuestDef defines a quest as loaded from YAML.
type QuestDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	// Status is the initial lifecycle state.
	Status string `yaml:"status"`
	// UnlockedBy names the quest whose completion flips this one from
	// locked to available. Empty for quests that start unlocked.
	UnlockedBy  string         `yaml:"unlocked_by"`
	Requirement RequirementDef `yaml:"requirement"`
	Reward      RewardDef      `yaml:"reward"`
}

// Validate checks that the QuestDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *QuestDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validStatuses[Status(d.Status)] {
		errs = append(errs, fmt.Errorf("Status must be one of available, locked, in-progress, completed; got %q", d.Status))
	}
	if d.Requirement.Kind != RequireItem && d.Requirement.Kind != RequireKill {
		errs = append(errs, fmt.Errorf("Requirement.Kind must be item or kill; got %q", d.Requirement.Kind))
	}
	if d.Requirement.Target == "" {
		errs = append(errs, errors.New("Requirement.Target must not be empty"))
	}
	if d.Requirement.Count < 1 {
		errs = append(errs, errors.New("Requirement.Count must be >= 1"))
	}
	if d.Reward.Exp < 0 || d.Reward.Gold < 0 {
		errs = append(errs, errors.New("Reward.Exp and Reward.Gold must be >= 0"))
	}
	for _, it := range d.Reward.Items {
		if it.TemplateID == "" || it.Count < 1 {
			errs = append(errs, errors.New("Reward.Items entries need a template_id and Count >= 1"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("quest validation failed: %v", errs)
	}
	return nil
}

// questFile is the on-disk shape of a quest content file.
type questFile struct {
	Quests []*QuestDef `yaml:"quests"`
}

// LoadQuests reads all *.yaml and *.yml files from dir, parses each as a
// list of QuestDefs, validates them, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid QuestDefs or the first encountered error.
func LoadQuests(dir string) ([]*QuestDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadQuests: cannot read directory %q: %w", dir, err)
	}

	var defs []*QuestDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadQuests: cannot read file %q: %w", path, err)
		}
		var f questFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("LoadQuests: cannot parse file %q: %w", path, err)
		}
		for _, d := range f.Quests {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadQuests: invalid quest in %q: %w", path, err)
			}
			defs = append(defs, d)
		}
	}
	return defs, nil
}
