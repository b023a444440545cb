package quest

import (
	"errors"
	"fmt"

	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// ErrUnknownQuest is returned when a quest id is not in the log.
var ErrUnknownQuest = errors.New("quest: unknown quest id")

// Log tracks the player's quest statuses and kill progress.
//
// Not safe for concurrent use; the session serialises access.
type Log struct {
	defs   []*QuestDef
	byID   map[string]*QuestDef
	status map[string]Status
	kills  map[string]int
}

// NewLog returns a Log seeded with each definition's initial status.
//
// Postcondition: every def is tracked; duplicate ids return an error.
func NewLog(defs []*QuestDef) (*Log, error) {
	l := &Log{
		byID:   make(map[string]*QuestDef, len(defs)),
		status: make(map[string]Status, len(defs)),
		kills:  make(map[string]int),
	}
	for _, d := range defs {
		if _, exists := l.byID[d.ID]; exists {
			return nil, fmt.Errorf("quest: NewLog: quest ID %q already registered", d.ID)
		}
		l.defs = append(l.defs, d)
		l.byID[d.ID] = d
		l.status[d.ID] = Status(d.Status)
	}
	return l, nil
}

// Quests returns all quest definitions in load order.
func (l *Log) Quests() []*QuestDef {
	out := make([]*QuestDef, len(l.defs))
	copy(out, l.defs)
	return out
}

// Status returns the current status of the identified quest.
//
// Postcondition: ok is false iff the id is unknown.
func (l *Log) Status(id string) (Status, bool) {
	s, ok := l.status[id]
	return s, ok
}

// Accept moves an available quest to in-progress.
//
// Postcondition: returns false when the quest is unknown or not available.
func (l *Log) Accept(id string) bool {
	if l.status[id] != StatusAvailable {
		return false
	}
	l.status[id] = StatusInProgress
	return true
}

// RecordKill advances every in-progress kill quest targeting monsterID.
func (l *Log) RecordKill(monsterID string) {
	for _, d := range l.defs {
		if d.Requirement.Kind != RequireKill || d.Requirement.Target != monsterID {
			continue
		}
		if l.status[d.ID] != StatusInProgress {
			continue
		}
		if l.kills[d.ID] < d.Requirement.Count {
			l.kills[d.ID]++
		}
	}
}

// itemCount sums the units of templateID held in the store across all stacks
// and rarities.
func itemCount(s *inventory.Store, templateID string) int {
	total := 0
	for _, inst := range s.Items() {
		if inst.Template().ID() == templateID {
			total += inst.Count()
		}
	}
	return total
}

// Progress returns the current and required counts toward the quest's
// requirement. Item progress is read live from the store.
func (l *Log) Progress(id string, s *inventory.Store) (current, required int, err error) {
	d, ok := l.byID[id]
	if !ok {
		return 0, 0, fmt.Errorf("quest: Log.Progress: %w: %q", ErrUnknownQuest, id)
	}
	required = d.Requirement.Count
	switch d.Requirement.Kind {
	case RequireKill:
		current = l.kills[id]
	default:
		current = itemCount(s, d.Requirement.Target)
	}
	if current > required {
		current = required
	}
	return current, required, nil
}

// IsComplete reports whether an in-progress quest has met its requirement.
func (l *Log) IsComplete(id string, s *inventory.Store) bool {
	if l.status[id] != StatusInProgress {
		return false
	}
	current, required, err := l.Progress(id, s)
	return err == nil && current >= required
}

// Claim completes a fulfilled in-progress quest: item requirements are
// consumed from the store, the reward is paid out, and any quest this one
// unlocks becomes available.
//
// Postcondition: returns false and changes nothing when the quest is not
// claimable; reward items that do not fit in the inventory are lost.
func (l *Log) Claim(id string, c *character.Character, s *inventory.Store, reg *item.Registry) bool {
	d, ok := l.byID[id]
	if !ok || !l.IsComplete(id, s) {
		return false
	}

	if d.Requirement.Kind == RequireItem {
		remaining := d.Requirement.Count
		for _, inst := range s.Items() {
			if remaining == 0 {
				break
			}
			if inst.Template().ID() != d.Requirement.Target {
				continue
			}
			take := inst.Count()
			if take > remaining {
				take = remaining
			}
			s.Remove(inst.ID(), take)
			remaining -= take
		}
	}

	c.GainExp(d.Reward.Exp)
	s.AddGold(d.Reward.Gold)
	for _, it := range d.Reward.Items {
		inst, err := reg.CreateItem(it.TemplateID, item.Overrides{Count: it.Count})
		if err != nil {
			continue
		}
		s.Add(inst)
	}

	l.status[id] = StatusCompleted
	for _, other := range l.defs {
		if other.UnlockedBy == id && l.status[other.ID] == StatusLocked {
			l.status[other.ID] = StatusAvailable
		}
	}
	return true
}

// Snapshot is the persisted form of a Log.
type Snapshot struct {
	Statuses map[string]string `json:"statuses"`
	Kills    map[string]int    `json:"kills"`
}

// Snapshot captures statuses and kill progress.
func (l *Log) Snapshot() Snapshot {
	snap := Snapshot{
		Statuses: make(map[string]string, len(l.status)),
		Kills:    make(map[string]int, len(l.kills)),
	}
	for id, s := range l.status {
		snap.Statuses[id] = string(s)
	}
	for id, n := range l.kills {
		snap.Kills[id] = n
	}
	return snap
}

// Restore applies a snapshot. Entries for quests that no longer exist and
// invalid statuses are ignored; untouched quests keep their initial status.
func (l *Log) Restore(snap Snapshot) {
	for id, s := range snap.Statuses {
		if _, ok := l.byID[id]; !ok || !validStatuses[Status(s)] {
			continue
		}
		l.status[id] = Status(s)
	}
	for id, n := range snap.Kills {
		if _, ok := l.byID[id]; !ok || n < 0 {
			continue
		}
		l.kills[id] = n
	}
}
