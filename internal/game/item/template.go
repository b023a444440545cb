package item

import "math"

// Template is an immutable item definition with rarity scaling already
// applied. Value and all numeric stats are scaled exactly once, at
// construction; accessors hand out copies so a built Template never changes.
type Template struct {
	id            string
	name          string
	typ           Type
	rarity        Tier
	level         int
	value         int
	description   string
	maxDurability int
	stats         map[string]int
	attributes    map[string]string
}

// NewTemplate builds a Template from a validated definition, scaling the
// base value by the tier's value multiplier and every numeric stat by the
// tier's stat multiplier, flooring both. Attribute strings pass through
// unscaled.
//
// Precondition: def.Validate() has returned nil.
// Postcondition: the returned Template is immutable.
func NewTemplate(def *TemplateDef) *Template {
	tier := tiersByID[Rarity(def.Rarity)]

	stats := make(map[string]int, len(def.Stats))
	for k, v := range def.Stats {
		stats[k] = int(math.Floor(float64(v) * tier.StatMultiplier))
	}
	attrs := make(map[string]string, len(def.Attributes))
	for k, v := range def.Attributes {
		attrs[k] = v
	}

	return &Template{
		id:            def.ID,
		name:          def.Name,
		typ:           Type(def.Type),
		rarity:        tier,
		level:         def.Level,
		value:         int(math.Floor(float64(def.Value) * tier.ValueMultiplier)),
		description:   def.Description,
		maxDurability: def.Durability,
		stats:         stats,
		attributes:    attrs,
	}
}

// ID returns the template identifier.
func (t *Template) ID() string { return t.id }

// Name returns the display name.
func (t *Template) Name() string { return t.name }

// Type returns the item category.
func (t *Template) Type() Type { return t.typ }

// Rarity returns the rarity tier the template was scaled with.
func (t *Template) Rarity() Tier { return t.rarity }

// Level returns the level requirement.
func (t *Template) Level() int { return t.level }

// Value returns the scaled gold value of a single unit.
func (t *Template) Value() int { return t.value }

// Description returns the display description.
func (t *Template) Description() string { return t.description }

// MaxDurability returns the durability cap, 0 for items without durability.
func (t *Template) MaxDurability() int { return t.maxDurability }

// Stat returns the scaled numeric stat for name and whether it is present.
func (t *Template) Stat(name string) (int, bool) {
	v, ok := t.stats[name]
	return v, ok
}

// Stats returns a copy of the scaled numeric stats.
func (t *Template) Stats() map[string]int {
	out := make(map[string]int, len(t.stats))
	for k, v := range t.stats {
		out[k] = v
	}
	return out
}

// Attribute returns the non-numeric attribute for name and whether it is present.
func (t *Template) Attribute(name string) (string, bool) {
	v, ok := t.attributes[name]
	return v, ok
}

// Stackable reports whether instances of the template can stack.
func (t *Template) Stackable() bool { return t.typ.Stackable() }

// MaxStack returns the stack cap for instances of the template.
func (t *Template) MaxStack() int { return t.typ.MaxStack() }
