package battle

import "github.com/herosdawn/herosdawn/internal/game/item"

// Skill is the special attack bound to the equipped weapon's rarity.
type Skill struct {
	Name       string
	MPCost     int
	Multiplier float64
	// Effect is a display-only status tag applied to struck monsters.
	// "all" additionally widens the strike to every living monster.
	Effect string
}

// Status effect tags.
const (
	EffectNone     = ""
	EffectStun     = "stun"
	EffectBurn     = "burn"
	EffectParalyze = "paralyze"
	EffectAll      = "all"
)

// skillsByRarity binds one skill to each weapon rarity tier.
var skillsByRarity = map[item.Rarity]Skill{
	item.RarityCommon:    {Name: "Quick Slash", MPCost: 5, Multiplier: 1.5, Effect: EffectNone},
	item.RarityRare:      {Name: "Power Strike", MPCost: 8, Multiplier: 1.8, Effect: EffectStun},
	item.RarityEpic:      {Name: "Blazing Edge", MPCost: 12, Multiplier: 2.0, Effect: EffectBurn},
	item.RarityLegendary: {Name: "Thunder Strike", MPCost: 15, Multiplier: 2.5, Effect: EffectParalyze},
	item.RarityMythic:    {Name: "Phoenix Slash", MPCost: 20, Multiplier: 3.0, Effect: EffectAll},
}

// SkillForRarity returns the skill bound to the given weapon rarity.
//
// Postcondition: unknown rarities fall back to the common skill.
func SkillForRarity(r item.Rarity) Skill {
	if s, ok := skillsByRarity[r]; ok {
		return s
	}
	return skillsByRarity[item.RarityCommon]
}
