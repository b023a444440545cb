package battle

import (
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/dice"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// State is the lifecycle state of a battle.
type State string

// Battle states. Every state other than StateOngoing is terminal.
const (
	StateOngoing State = "ongoing"
	StateVictory State = "victory"
	StateDefeat  State = "defeat"
	StateEscaped State = "escaped"
)

// ActionKind identifies a player action.
type ActionKind string

// Player actions.
const (
	ActionAttack  ActionKind = "attack"
	ActionDefend  ActionKind = "defend"
	ActionSpecial ActionKind = "special"
	ActionEscape  ActionKind = "escape"
)

// LogEntry is one line of the structured battle log.
type LogEntry struct {
	Kind    string
	Message string
}

// Log entry kinds.
const (
	LogPlayer  = "player"
	LogMonster = "monster"
	LogSystem  = "system"
	LogReward  = "reward"
)

// Result reports what one submitted action did.
type Result struct {
	// Entries are the log lines produced by this action only.
	Entries []LogEntry
	// State is the battle state after the action resolved.
	State State
	// Rewards is non-nil exactly once, on the action that won the battle.
	Rewards *Rewards
}

// Fallback weapon when nothing is equipped.
const (
	fistsAttack = 5
	fistsName   = "Fists"
)

// Battle is one encounter between the player and a pack of stage-scaled
// monsters. The player acts once per round; every living monster then sweeps
// once. Terminal states absorb further actions as no-ops.
type Battle struct {
	mu     sync.Mutex
	locked atomic.Bool

	id       string
	stage    int
	state    State
	player   *character.Character
	store    *inventory.Store
	reg      *item.Registry
	monsters []*Monster

	defending bool
	src       dice.Source
	logger    *zap.Logger
	log       []LogEntry
}

// ID returns the battle identifier.
func (b *Battle) ID() string { return b.id }

// Stage returns the encounter stage.
func (b *Battle) Stage() int { return b.stage }

// State returns the current battle state.
func (b *Battle) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Locked reports whether an action is currently resolving.
func (b *Battle) Locked() bool {
	return b.locked.Load()
}

// Monsters returns the encounter's combatants in spawn order.
func (b *Battle) Monsters() []*Monster {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Monster, len(b.monsters))
	copy(out, b.monsters)
	return out
}

// Log returns the full battle log so far.
func (b *Battle) Log() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogEntry, len(b.log))
	copy(out, b.log)
	return out
}

// weapon returns the attack stat, rarity, and name the player fights with:
// the equipped weapon, or bare fists when none is equipped.
func (b *Battle) weapon() (attack int, rarity item.Rarity, name string) {
	inst, ok := b.store.EquippedByType(item.TypeWeapon)
	if !ok {
		return fistsAttack, item.RarityCommon, fistsName
	}
	atk, _ := inst.Template().Stat("attack")
	return atk, inst.Template().Rarity().ID, inst.Template().Name()
}

// firstLiving returns the first monster still standing, or nil.
func (b *Battle) firstLiving() *Monster {
	for _, m := range b.monsters {
		if m.Alive() {
			return m
		}
	}
	return nil
}

func (b *Battle) allDead() bool {
	return b.firstLiving() == nil
}

// SubmitAction resolves one player action and, unless the action ended the
// battle or was a no-op, the monsters' counter-sweep.
//
// Postcondition: in a terminal state the battle is untouched and the result
// carries no entries.
func (b *Battle) SubmitAction(kind ActionKind) Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked.Store(true)
	defer b.locked.Store(false)

	if b.state != StateOngoing {
		return Result{State: b.state}
	}

	var entries []LogEntry
	record := func(kind, msg string) {
		e := LogEntry{Kind: kind, Message: msg}
		b.log = append(b.log, e)
		entries = append(entries, e)
		b.logger.Debug("battle log", zap.String("battle", b.id), zap.String("kind", kind), zap.String("msg", msg))
	}

	var rewards *Rewards
	sweepAfter := true

	switch kind {
	case ActionAttack:
		b.doAttack(record)
	case ActionDefend:
		b.doDefend(record)
	case ActionSpecial:
		sweepAfter = b.doSpecial(record)
	case ActionEscape:
		sweepAfter = b.doEscape(record)
	default:
		record(LogSystem, "nothing happens")
		sweepAfter = false
	}

	if b.state == StateOngoing && b.allDead() {
		b.state = StateVictory
		rewards = b.payRewards(record)
	}
	if b.state == StateOngoing && sweepAfter {
		b.sweep(record)
	}

	return Result{Entries: entries, State: b.state, Rewards: rewards}
}

// doAttack strikes the first living monster.
// Damage: max(1, weaponAtk + rand[0,5) - floor(def/2)).
func (b *Battle) doAttack(record func(kind, msg string)) {
	target := b.firstLiving()
	atk, _, weaponName := b.weapon()
	dmg := atk + b.src.Intn(5) - target.Defense()/2
	if dmg < 1 {
		dmg = 1
	}
	target.takeDamage(dmg)
	record(LogPlayer, attackMessage(weaponName, target, dmg))
}

// doDefend halves the next sweep and restores a tenth of max MP.
func (b *Battle) doDefend(record func(kind, msg string)) {
	b.defending = true
	restored := b.player.MaxMP() / 10
	b.player.RestoreMana(restored)
	record(LogPlayer, defendMessage(restored))
}

// doSpecial fires the skill bound to the equipped weapon's rarity. Without
// enough MP the action is a logged no-op and the monsters do not sweep.
// Damage per target: max(1, floor((weaponAtk+10+rand[0,5)) * mult) - floor(def/3)).
func (b *Battle) doSpecial(record func(kind, msg string)) (sweepAfter bool) {
	atk, rarity, _ := b.weapon()
	skill := SkillForRarity(rarity)

	if !b.player.SpendMana(skill.MPCost) {
		record(LogSystem, notEnoughMPMessage(skill))
		return false
	}

	targets := []*Monster{b.firstLiving()}
	if skill.Effect == EffectAll {
		targets = targets[:0]
		for _, m := range b.monsters {
			if m.Alive() {
				targets = append(targets, m)
			}
		}
	}

	for _, target := range targets {
		raw := float64(atk+10+b.src.Intn(5)) * skill.Multiplier
		dmg := int(math.Floor(raw)) - target.Defense()/3
		if dmg < 1 {
			dmg = 1
		}
		target.takeDamage(dmg)
		if skill.Effect != EffectNone {
			target.status = skill.Effect
		}
		record(LogPlayer, skillMessage(skill, target, dmg))
	}
	return true
}

// doEscape attempts to flee. Success chance: max(0, 50 - stage*5) percent.
// A failed attempt still consumes the round.
func (b *Battle) doEscape(record func(kind, msg string)) (sweepAfter bool) {
	chance := 50 - b.stage*5
	if dice.PercentRoll(b.src, chance) {
		b.state = StateEscaped
		record(LogSystem, "you slipped away from the fight")
		return false
	}
	record(LogSystem, "escape failed")
	return true
}

// sweep has every living monster strike once.
// Damage: max(1, floor((atk + rand[0,3)) * defendMult)), defendMult 0.5 while
// defending. The defend flag is consumed afterwards regardless.
func (b *Battle) sweep(record func(kind, msg string)) {
	mult := 1.0
	if b.defending {
		mult = 0.5
	}
	for _, m := range b.monsters {
		if !m.Alive() {
			continue
		}
		dmg := int(math.Floor(float64(m.Attack()+b.src.Intn(3)) * mult))
		if dmg < 1 {
			dmg = 1
		}
		b.player.TakeDamage(dmg)
		record(LogMonster, monsterHitMessage(m, dmg))
		if b.player.IsDead() {
			b.state = StateDefeat
			record(LogSystem, "you have been defeated")
			break
		}
	}
	b.defending = false
}
