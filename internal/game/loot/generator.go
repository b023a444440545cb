// Package loot generates item drops from the template catalog, windowed by
// player level and weighted by rarity.
package loot

import (
	"go.uber.org/zap"

	"github.com/herosdawn/herosdawn/internal/game/dice"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// RollMode selects the rarity roll algorithm.
type RollMode string

const (
	// RollModeWeighted samples rarities by cumulative drop chance, so each
	// tier is drawn at exactly its configured rate.
	RollModeWeighted RollMode = "weighted"
	// RollModeThreshold scans tiers most-common-first and takes the first
	// whose own drop chance exceeds the roll. With the stock tier table this
	// always lands on common; it is kept for saves balanced against the old
	// behaviour.
	RollModeThreshold RollMode = "threshold"
)

// Window bounds around the player level when building the drop pool.
const (
	levelWindowBelow = 5
	levelWindowAbove = 3
)

// Generator produces item instances for a player level.
type Generator struct {
	reg    *item.Registry
	src    dice.Source
	mode   RollMode
	logger *zap.Logger
}

// NewGenerator returns a Generator drawing templates from reg and randomness
// from src.
//
// Precondition: reg and src must be non-nil.
// Postcondition: a nil logger falls back to a no-op logger.
func NewGenerator(reg *item.Registry, src dice.Source, mode RollMode, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{reg: reg, src: src, mode: mode, logger: logger}
}

// rollRarity draws one rarity tier according to the generator's mode.
func (g *Generator) rollRarity() item.Tier {
	roll := g.src.Intn(100)
	tiers := item.Tiers()

	switch g.mode {
	case RollModeThreshold:
		for _, tier := range tiers {
			if roll < tier.DropChance {
				return tier
			}
		}
		return tiers[0]
	default:
		cumulative := 0
		for _, tier := range tiers {
			cumulative += tier.DropChance
			if roll < cumulative {
				return tier
			}
		}
		return tiers[len(tiers)-1]
	}
}

// Generate rolls qty drops for a player of the given level and returns the
// created instances. The pool is every template whose level requirement lies
// in [max(1, level-5), level+3], queried once per call. A roll whose rarity
// has no template in the pool produces nothing.
//
// Postcondition: len(result) <= qty; every instance's template level is
// inside the window.
func (g *Generator) Generate(level, qty int) []*item.Instance {
	low := level - levelWindowBelow
	if low < 1 {
		low = 1
	}
	high := level + levelWindowAbove

	pool := g.reg.ByLevelRange(low, high)
	byRarity := make(map[item.Rarity][]*item.Template)
	for _, tpl := range pool {
		byRarity[tpl.Rarity().ID] = append(byRarity[tpl.Rarity().ID], tpl)
	}

	var out []*item.Instance
	for i := 0; i < qty; i++ {
		tier := g.rollRarity()
		candidates := byRarity[tier.ID]
		if len(candidates) == 0 {
			g.logger.Debug("loot roll skipped, no templates in pool",
				zap.String("rarity", string(tier.ID)),
				zap.Int("level", level))
			continue
		}
		tpl := candidates[g.src.Intn(len(candidates))]
		out = append(out, item.NewInstance(tpl))
		g.logger.Debug("loot rolled",
			zap.String("rarity", string(tier.ID)),
			zap.String("template", tpl.ID()),
			zap.Int("level", level))
	}
	return out
}

// GenerateOne rolls a single drop, returning nil when the roll lands on an
// empty rarity bucket.
func (g *Generator) GenerateOne(level int) *item.Instance {
	drops := g.Generate(level, 1)
	if len(drops) == 0 {
		return nil
	}
	return drops[0]
}
