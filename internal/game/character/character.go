// Package character tracks the player's vitals, experience, and level
// progression.
package character

import (
	"math"

	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// Starting vitals for a fresh level-1 character.
const (
	baseMaxHP  = 100
	baseMaxMP  = 50
	baseMaxExp = 100
)

// Level-up growth per level gained.
const (
	levelUpHPGain     = 10
	levelUpMPGain     = 5
	levelUpExpGrowth  = 1.2
	levelUpHealToFull = true
)

// Character is the player's progression state. HP and MP are always clamped
// to [0, max]; experience carries its remainder across level-ups.
//
// Not safe for concurrent use; the session serialises access.
type Character struct {
	name   string
	level  int
	hp     int
	maxHP  int
	mp     int
	maxMP  int
	exp    int
	maxExp int
}

// New returns a level-1 character with full vitals.
func New(name string) *Character {
	return &Character{
		name:   name,
		level:  1,
		hp:     baseMaxHP,
		maxHP:  baseMaxHP,
		mp:     baseMaxMP,
		maxMP:  baseMaxMP,
		maxExp: baseMaxExp,
	}
}

// Name returns the character name.
func (c *Character) Name() string { return c.name }

// Level returns the current level.
func (c *Character) Level() int { return c.level }

// HP returns current hit points.
func (c *Character) HP() int { return c.hp }

// MaxHP returns the hit point cap.
func (c *Character) MaxHP() int { return c.maxHP }

// MP returns current mana points.
func (c *Character) MP() int { return c.mp }

// MaxMP returns the mana point cap.
func (c *Character) MaxMP() int { return c.maxMP }

// Exp returns experience toward the next level.
func (c *Character) Exp() int { return c.exp }

// MaxExp returns the experience required for the next level.
func (c *Character) MaxExp() int { return c.maxExp }

// IsDead reports whether hit points have reached 0.
func (c *Character) IsDead() bool { return c.hp == 0 }

// TakeDamage reduces HP by n, never below 0.
func (c *Character) TakeDamage(n int) {
	if n < 0 {
		return
	}
	c.hp -= n
	if c.hp < 0 {
		c.hp = 0
	}
}

// Heal restores n HP, never above the cap.
func (c *Character) Heal(n int) {
	if n < 0 {
		return
	}
	c.hp += n
	if c.hp > c.maxHP {
		c.hp = c.maxHP
	}
}

// RestoreMana restores n MP, never above the cap.
func (c *Character) RestoreMana(n int) {
	if n < 0 {
		return
	}
	c.mp += n
	if c.mp > c.maxMP {
		c.mp = c.maxMP
	}
}

// SpendMana deducts n MP and reports success. MP is left untouched when it
// cannot cover n.
//
// Postcondition: returns false iff n < 0 or n exceeds current MP.
func (c *Character) SpendMana(n int) bool {
	if n < 0 || n > c.mp {
		return false
	}
	c.mp -= n
	return true
}

// GainExp adds n experience and resolves any level-ups. Each level carries
// the experience remainder forward, grows the requirement by a fifth
// (floored), raises the HP cap by 10 and the MP cap by 5, and restores
// vitals to full.
//
// Postcondition: returns the number of levels gained; Exp() < MaxExp().
func (c *Character) GainExp(n int) int {
	if n <= 0 {
		return 0
	}
	c.exp += n
	levels := 0
	for c.exp >= c.maxExp {
		c.exp -= c.maxExp
		c.level++
		levels++
		c.maxExp = int(math.Floor(float64(c.maxExp) * levelUpExpGrowth))
		c.maxHP += levelUpHPGain
		c.maxMP += levelUpMPGain
		if levelUpHealToFull {
			c.hp = c.maxHP
			c.mp = c.maxMP
		}
	}
	return levels
}

// UseConsumable consumes one unit of the identified potion or food from the
// store and applies its hpRestore and mpRestore stats.
//
// Postcondition: returns false when the instance is absent, not consumable,
// or empty; on success exactly one unit has been removed.
func (c *Character) UseConsumable(s *inventory.Store, instanceID string) bool {
	inst, ok := s.GetItem(instanceID)
	if !ok {
		return false
	}
	typ := inst.Template().Type()
	if typ != item.TypePotion && typ != item.TypeFood {
		return false
	}
	if !s.Remove(instanceID, 1) {
		return false
	}
	if hp, ok := inst.Template().Stat("hpRestore"); ok {
		c.Heal(hp)
	}
	if mp, ok := inst.Template().Stat("mpRestore"); ok {
		c.RestoreMana(mp)
	}
	return true
}

// Snapshot is the persisted form of a Character.
type Snapshot struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	MP     int    `json:"mp"`
	MaxMP  int    `json:"max_mp"`
	Exp    int    `json:"exp"`
	MaxExp int    `json:"max_exp"`
}

// Snapshot captures the current state.
func (c *Character) Snapshot() Snapshot {
	return Snapshot{
		Name:   c.name,
		Level:  c.level,
		HP:     c.hp,
		MaxHP:  c.maxHP,
		MP:     c.mp,
		MaxMP:  c.maxMP,
		Exp:    c.exp,
		MaxExp: c.maxExp,
	}
}

// Restore replaces the character state with the snapshot, clamping vitals
// into their valid ranges.
func (c *Character) Restore(snap Snapshot) {
	c.name = snap.Name
	c.level = max(1, snap.Level)
	c.maxHP = max(1, snap.MaxHP)
	c.maxMP = max(0, snap.MaxMP)
	c.maxExp = max(1, snap.MaxExp)
	c.hp = clamp(snap.HP, 0, c.maxHP)
	c.mp = clamp(snap.MP, 0, c.maxMP)
	c.exp = clamp(snap.Exp, 0, c.maxExp-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
