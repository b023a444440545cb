// Package inventory provides the slot-limited, stacking item store that owns
// the player's items and gold.
package inventory

import (
	"sync"

	"github.com/herosdawn/herosdawn/internal/game/item"
)

// DefaultMaxSlots is the slot capacity of a fresh store.
const DefaultMaxSlots = 30

// Store holds item instances and gold behind a slot limit. One slot holds one
// instance; stackable instances hold up to their type's stack cap.
//
// Invariant: len(items) <= maxSlots, gold >= 0, at most one equipped instance
// per item type, and at most one unequipped stack per (template, rarity) pair.
//
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	reg      *item.Registry
	items    []*item.Instance
	gold     int
	maxSlots int
}

// NewStore returns an empty Store resolving templates through reg.
//
// Precondition: reg must be non-nil.
// Postcondition: maxSlots <= 0 falls back to DefaultMaxSlots.
func NewStore(reg *item.Registry, maxSlots int) *Store {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Store{reg: reg, maxSlots: maxSlots}
}

// MaxSlots returns the slot capacity.
func (s *Store) MaxSlots() int { return s.maxSlots }

// SlotsUsed returns the number of occupied slots.
func (s *Store) SlotsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Gold returns the current gold balance.
func (s *Store) Gold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gold
}

// AddGold increases the gold balance by n. Non-positive n is ignored.
func (s *Store) AddGold(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gold += n
}

// SpendGold decreases the balance by n and reports success. The balance is
// left untouched when it cannot cover n.
//
// Postcondition: returns false iff n < 0 or n exceeds the balance.
func (s *Store) SpendGold(n int) bool {
	if n < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.gold {
		return false
	}
	s.gold -= n
	return true
}

// findStack returns the unequipped stack matching tpl, or nil.
// Caller must hold s.mu.
func (s *Store) findStack(tpl *item.Template) *item.Instance {
	for _, inst := range s.items {
		if inst.Equipped() {
			continue
		}
		if inst.Template().ID() == tpl.ID() && inst.Template().Rarity().ID == tpl.Rarity().ID {
			return inst
		}
	}
	return nil
}

// Add places inst into the store and returns the number of units actually
// added. Stackables merge into the existing unequipped stack up to the type's
// cap, or open a new stack in a free slot; units that fit nowhere are
// dropped. Non-stackables occupy one slot per unit: the given instance first,
// clones with fresh ids for the rest, each with count 1.
//
// Precondition: inst must be non-nil with count >= 1.
// Postcondition: returned count is in [0, inst.Count()]; 0 means the store
// was full (never an error).
func (s *Store) Add(inst *item.Instance) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(inst)
}

func (s *Store) add(inst *item.Instance) int {
	tpl := inst.Template()
	want := inst.Count()
	if want < 1 {
		return 0
	}

	if !tpl.Stackable() {
		placed := 0
		for placed < want && len(s.items) < s.maxSlots {
			unit := inst
			if placed > 0 {
				unit = inst.Clone()
				unit.SetEquipped(false)
			}
			unit.SetCount(1)
			s.items = append(s.items, unit)
			placed++
		}
		return placed
	}

	if stack := s.findStack(tpl); stack != nil {
		room := tpl.MaxStack() - stack.Count()
		added := min(room, want)
		if added > 0 {
			stack.SetCount(stack.Count() + added)
		}
		return added
	}

	if len(s.items) >= s.maxSlots {
		return 0
	}
	added := min(want, tpl.MaxStack())
	inst.SetCount(added)
	inst.SetEquipped(false)
	s.items = append(s.items, inst)
	return added
}

// AddByID creates count units of the identified template and adds them.
//
// Postcondition: returns the number of units added, or an error only when the
// template id is unknown.
func (s *Store) AddByID(templateID string, count int) (int, error) {
	inst, err := s.reg.CreateItem(templateID, item.Overrides{Count: count})
	if err != nil {
		return 0, err
	}
	return s.Add(inst), nil
}

// CanAdd reports how many of count units of tpl would fit right now, without
// mutating the store. It is the pure mirror of Add.
func (s *Store) CanAdd(tpl *item.Template, count int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count < 1 {
		return 0
	}
	if !tpl.Stackable() {
		return min(count, s.maxSlots-len(s.items))
	}
	if stack := s.findStack(tpl); stack != nil {
		return min(tpl.MaxStack()-stack.Count(), count)
	}
	if len(s.items) >= s.maxSlots {
		return 0
	}
	return min(count, tpl.MaxStack())
}

// Remove decrements count units from the identified instance, deleting it
// when the stack empties, and reports whether the instance was present.
func (s *Store) Remove(instanceID string, count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, inst := range s.items {
		if inst.ID() != instanceID {
			continue
		}
		inst.SetCount(inst.Count() - count)
		if inst.Count() == 0 {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
		}
		return true
	}
	return false
}

// GetItem returns the instance with the given id and whether it was found.
func (s *Store) GetItem(instanceID string) (*item.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.items {
		if inst.ID() == instanceID {
			return inst, true
		}
	}
	return nil, false
}

// Items returns all instances in slot order.
func (s *Store) Items() []*item.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*item.Instance, len(s.items))
	copy(out, s.items)
	return out
}

// ItemsByType returns the instances of the given type in slot order.
func (s *Store) ItemsByType(t item.Type) []*item.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*item.Instance
	for _, inst := range s.items {
		if inst.Template().Type() == t {
			out = append(out, inst)
		}
	}
	return out
}

// EquippedItems returns all equipped instances in slot order.
func (s *Store) EquippedItems() []*item.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*item.Instance
	for _, inst := range s.items {
		if inst.Equipped() {
			out = append(out, inst)
		}
	}
	return out
}

// EquippedByType returns the equipped instance of the given type, if any.
func (s *Store) EquippedByType(t item.Type) (*item.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.items {
		if inst.Equipped() && inst.Template().Type() == t {
			return inst, true
		}
	}
	return nil, false
}

// Equip marks the identified instance equipped, unequipping any currently
// equipped instance of the same type first.
//
// Postcondition: returns false iff the instance is absent; at most one
// instance per type is equipped afterwards.
func (s *Store) Equip(instanceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *item.Instance
	for _, inst := range s.items {
		if inst.ID() == instanceID {
			target = inst
			break
		}
	}
	if target == nil {
		return false
	}
	for _, inst := range s.items {
		if inst.Equipped() && inst.Template().Type() == target.Template().Type() {
			inst.SetEquipped(false)
		}
	}
	target.SetEquipped(true)
	return true
}

// Unequip clears the equipped flag on the identified instance.
//
// Postcondition: returns false iff the instance is absent.
func (s *Store) Unequip(instanceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.items {
		if inst.ID() == instanceID {
			inst.SetEquipped(false)
			return true
		}
	}
	return false
}

// TotalValue returns the summed gold value of all stacks plus the gold balance.
func (s *Store) TotalValue() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.gold
	for _, inst := range s.items {
		total += inst.Template().Value() * inst.Count()
	}
	return total
}
