package item

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Instance is a concrete occurrence of a Template: a stack of units or a
// single piece of equipment with its own durability state.
//
// Invariant: count >= 0 and currentDurability in [0, template.MaxDurability()].
type Instance struct {
	id         string
	template   *Template
	count      int
	equipped   bool
	durability int
	createdAt  time.Time
}

// newInstanceID builds a unique instance id in the form
// <templateID>_<unix millis>_<uuid fragment>.
func newInstanceID(templateID string) string {
	return fmt.Sprintf("%s_%d_%s", templateID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// NewInstance returns a fresh instance of tpl with count 1, unequipped, and
// full durability.
//
// Precondition: tpl must be non-nil.
func NewInstance(tpl *Template) *Instance {
	return &Instance{
		id:         newInstanceID(tpl.ID()),
		template:   tpl,
		count:      1,
		durability: tpl.MaxDurability(),
		createdAt:  time.Now(),
	}
}

// ID returns the instance identifier.
func (i *Instance) ID() string { return i.id }

// Template returns the template the instance was created from.
func (i *Instance) Template() *Template { return i.template }

// Count returns the number of units in the stack.
func (i *Instance) Count() int { return i.count }

// SetCount sets the stack size, clamping negative values to 0.
//
// Postcondition: Count() == max(0, n).
func (i *Instance) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	i.count = n
}

// Equipped reports whether the instance is currently equipped.
func (i *Instance) Equipped() bool { return i.equipped }

// SetEquipped marks the instance equipped or unequipped.
func (i *Instance) SetEquipped(equipped bool) { i.equipped = equipped }

// CreatedAt returns the instance creation time.
func (i *Instance) CreatedAt() time.Time { return i.createdAt }

// Durability returns the current durability.
func (i *Instance) Durability() int { return i.durability }

// SetDurability sets the current durability, clamped to
// [0, template.MaxDurability()].
func (i *Instance) SetDurability(n int) {
	if n < 0 {
		n = 0
	}
	if cap := i.template.MaxDurability(); n > cap {
		n = cap
	}
	i.durability = n
}

// Wear reduces durability by n, never below 0.
func (i *Instance) Wear(n int) {
	i.SetDurability(i.durability - n)
}

// Repair restores durability to the template cap.
//
// Postcondition: Durability() == Template().MaxDurability().
func (i *Instance) Repair() {
	i.durability = i.template.MaxDurability()
}

// IsBroken reports whether a durability-bearing item has worn out.
// Items without durability never break.
func (i *Instance) IsBroken() bool {
	return i.template.MaxDurability() > 0 && i.durability == 0
}

// DurabilityPercent returns current durability as a percentage of the cap,
// or 100 for items without durability.
func (i *Instance) DurabilityPercent() int {
	cap := i.template.MaxDurability()
	if cap == 0 {
		return 100
	}
	return i.durability * 100 / cap
}

// CanStackWith reports whether units may merge from other into i: both must
// share a stackable template and rarity, and neither may be equipped.
func (i *Instance) CanStackWith(other *Instance) bool {
	if !i.template.Stackable() {
		return false
	}
	if i.equipped || other.equipped {
		return false
	}
	return i.template.ID() == other.template.ID() &&
		i.template.Rarity().ID == other.template.Rarity().ID
}

// Clone returns a copy of the instance with a fresh id and creation time.
// Count, equipped state, and durability carry over.
func (i *Instance) Clone() *Instance {
	return &Instance{
		id:         newInstanceID(i.template.ID()),
		template:   i.template,
		count:      i.count,
		equipped:   i.equipped,
		durability: i.durability,
		createdAt:  time.Now(),
	}
}
