// Package item provides the rarity tables, template catalog, and item
// instances that the inventory, loot, and battle packages are built on.
package item

// Rarity identifies a rarity tier.
type Rarity string

// Rarity tier IDs, ordered from most to least common.
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// Tier holds the drop and scaling constants of a rarity tier.
type Tier struct {
	ID              Rarity
	Name            string
	DropChance      int
	StatMultiplier  float64
	ValueMultiplier float64
	Color           string
}

// tiers is the canonical tier table, ordered common first.
// Invariant: DropChance values sum to 100.
var tiers = []Tier{
	{ID: RarityCommon, Name: "Common", DropChance: 60, StatMultiplier: 1.0, ValueMultiplier: 1.0, Color: "#9e9e9e"},
	{ID: RarityRare, Name: "Rare", DropChance: 25, StatMultiplier: 1.5, ValueMultiplier: 2.0, Color: "#2196f3"},
	{ID: RarityEpic, Name: "Epic", DropChance: 10, StatMultiplier: 2.0, ValueMultiplier: 5.0, Color: "#9c27b0"},
	{ID: RarityLegendary, Name: "Legendary", DropChance: 4, StatMultiplier: 3.0, ValueMultiplier: 12.0, Color: "#ff9800"},
	{ID: RarityMythic, Name: "Mythic", DropChance: 1, StatMultiplier: 4.0, ValueMultiplier: 25.0, Color: "#f44336"},
}

var tiersByID = func() map[Rarity]Tier {
	m := make(map[Rarity]Tier, len(tiers))
	for _, t := range tiers {
		m[t.ID] = t
	}
	return m
}()

// Tiers returns the rarity tier table ordered from most to least common.
//
// Postcondition: the returned slice is a copy; callers may not mutate the table.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierByID returns the Tier for the given rarity id and whether it exists.
func TierByID(id Rarity) (Tier, bool) {
	t, ok := tiersByID[id]
	return t, ok
}
