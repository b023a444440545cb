package item

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for registry lookups and registration.
var (
	// ErrDuplicateTemplate is returned when a template id is registered twice.
	ErrDuplicateTemplate = errors.New("item: duplicate template id")
	// ErrUnknownTemplate is returned when an id is not in the registry.
	ErrUnknownTemplate = errors.New("item: unknown template id")
)

// Registry holds the immutable template catalog, indexed by id, type, rarity,
// and level bucket. All query results preserve registration order.
type Registry struct {
	ordered  []*Template
	byID     map[string]*Template
	byType   map[Type][]*Template
	byRarity map[Rarity][]*Template
	byBucket map[int][]*Template
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal indexes are initialised.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*Template),
		byType:   make(map[Type][]*Template),
		byRarity: make(map[Rarity][]*Template),
		byBucket: make(map[int][]*Template),
	}
}

// levelBucket groups levels into decades: 1-9 -> 0, 10-19 -> 10, and so on.
func levelBucket(level int) int {
	return level / 10 * 10
}

// Register adds tpl to the catalog and all indexes.
//
// Precondition:  tpl must be non-nil.
// Postcondition: Get(tpl.ID()) returns tpl; returns ErrDuplicateTemplate if
// the id is already registered.
func (r *Registry) Register(tpl *Template) error {
	if _, exists := r.byID[tpl.ID()]; exists {
		return fmt.Errorf("item: Registry.Register: %w: %q", ErrDuplicateTemplate, tpl.ID())
	}
	r.ordered = append(r.ordered, tpl)
	r.byID[tpl.ID()] = tpl
	r.byType[tpl.Type()] = append(r.byType[tpl.Type()], tpl)
	r.byRarity[tpl.Rarity().ID] = append(r.byRarity[tpl.Rarity().ID], tpl)
	bucket := levelBucket(tpl.Level())
	r.byBucket[bucket] = append(r.byBucket[bucket], tpl)
	return nil
}

// Get returns the Template for the given id and whether it was found.
func (r *Registry) Get(id string) (*Template, bool) {
	tpl, ok := r.byID[id]
	return tpl, ok
}

// All returns every registered template in registration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByType returns the templates of the given type in registration order.
func (r *Registry) ByType(t Type) []*Template {
	src := r.byType[t]
	out := make([]*Template, len(src))
	copy(out, src)
	return out
}

// ByRarity returns the templates of the given rarity in registration order.
func (r *Registry) ByRarity(id Rarity) []*Template {
	src := r.byRarity[id]
	out := make([]*Template, len(src))
	copy(out, src)
	return out
}

// ByLevelRange returns the templates whose level requirement falls within
// [min, max] inclusive, in registration order.
func (r *Registry) ByLevelRange(min, max int) []*Template {
	var out []*Template
	for _, tpl := range r.ordered {
		if tpl.Level() >= min && tpl.Level() <= max {
			out = append(out, tpl)
		}
	}
	return out
}

// Overrides customises an instance at creation time. Zero values leave the
// corresponding default in place; Durability is a pointer because 0 is a
// meaningful durability.
type Overrides struct {
	InstanceID string
	Count      int
	Equipped   bool
	Durability *int
	CreatedAt  time.Time
}

// CreateItem builds a new Instance of the identified template, applying
// overrides last.
//
// Postcondition: returns ErrUnknownTemplate if id is not registered.
func (r *Registry) CreateItem(id string, ov Overrides) (*Instance, error) {
	tpl, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("item: Registry.CreateItem: %w: %q", ErrUnknownTemplate, id)
	}
	inst := NewInstance(tpl)
	if ov.InstanceID != "" {
		inst.id = ov.InstanceID
	}
	if ov.Count > 0 {
		inst.SetCount(ov.Count)
	}
	if ov.Equipped {
		inst.SetEquipped(true)
	}
	if ov.Durability != nil {
		inst.SetDurability(*ov.Durability)
	}
	if !ov.CreatedAt.IsZero() {
		inst.createdAt = ov.CreatedAt
	}
	return inst, nil
}
