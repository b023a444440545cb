package battle

import (
	"fmt"

	"github.com/herosdawn/herosdawn/internal/game/dice"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// Rewards is the payout of a won battle.
type Rewards struct {
	Exp          int
	Gold         int
	BonusGold    int
	LevelsGained int
	// ItemTemplateID names the dropped item's template, empty when the drop
	// roll failed or the pool was empty.
	ItemTemplateID string
	// ItemAdded is false when a drop rolled but the inventory had no room.
	ItemAdded bool
}

// Drop category lottery, cumulative out of 100.
const (
	categoryGoldUpTo    = 35
	categoryPotionUpTo  = 60
	categoryFoodUpTo    = 80
	categoryWeaponUpTo  = 92
	maxDropChance       = 95
	dropChanceBase      = 40
	dropChancePerStage  = 5
	rewardWindowBelow   = 5
	rewardWindowAbove   = 3
	victoryWeaponWear   = 1
	expBase, expVar     = 50, 20
	goldBase, goldVar   = 20, 10
	bonusBase, bonusVar = 10, 10
)

// payRewards pays out experience, gold, and the drop lottery after a win.
// Caller must hold b.mu and have set the state to StateVictory.
func (b *Battle) payRewards(record func(kind, msg string)) *Rewards {
	stage := b.stage
	r := &Rewards{
		Exp:  expBase*stage + b.src.Intn(expVar*stage),
		Gold: goldBase*stage + b.src.Intn(goldVar*stage),
	}

	r.LevelsGained = b.player.GainExp(r.Exp)
	b.store.AddGold(r.Gold)
	record(LogReward, fmt.Sprintf("victory! gained %d exp and %d gold", r.Exp, r.Gold))
	if r.LevelsGained > 0 {
		record(LogReward, fmt.Sprintf("level up! now level %d", b.player.Level()))
	}

	if inst, ok := b.store.EquippedByType(item.TypeWeapon); ok {
		inst.Wear(victoryWeaponWear)
	}

	chance := dropChanceBase + dropChancePerStage*stage
	if chance > maxDropChance {
		chance = maxDropChance
	}
	if !dice.PercentRoll(b.src, chance) {
		return r
	}

	roll := b.src.Intn(100)
	switch {
	case roll < categoryGoldUpTo:
		r.BonusGold = bonusBase*stage + b.src.Intn(bonusVar*stage)
		b.store.AddGold(r.BonusGold)
		record(LogReward, fmt.Sprintf("found a coin pouch: %d bonus gold", r.BonusGold))
	case roll < categoryPotionUpTo:
		b.dropItem(item.TypePotion, r, record)
	case roll < categoryFoodUpTo:
		b.dropItem(item.TypeFood, r, record)
	case roll < categoryWeaponUpTo:
		b.dropItem(item.TypeWeapon, r, record)
	default:
		b.dropItem(item.TypeArmor, r, record)
	}
	return r
}

// dropItem picks a uniform template of the given type from the player's
// level window and adds one to the inventory. An empty pool produces
// nothing; a full inventory loses the drop.
func (b *Battle) dropItem(t item.Type, r *Rewards, record func(kind, msg string)) {
	low := b.player.Level() - rewardWindowBelow
	if low < 1 {
		low = 1
	}
	high := b.player.Level() + rewardWindowAbove

	var pool []*item.Template
	for _, tpl := range b.reg.ByType(t) {
		if tpl.Level() >= low && tpl.Level() <= high {
			pool = append(pool, tpl)
		}
	}
	if len(pool) == 0 {
		return
	}

	tpl := pool[b.src.Intn(len(pool))]
	r.ItemTemplateID = tpl.ID()
	added := b.store.Add(item.NewInstance(tpl))
	r.ItemAdded = added > 0
	if r.ItemAdded {
		record(LogReward, fmt.Sprintf("the monsters dropped %s", tpl.Name()))
	} else {
		record(LogReward, fmt.Sprintf("the monsters dropped %s, but your inventory is full", tpl.Name()))
	}
}
