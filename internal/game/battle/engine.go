package battle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/dice"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

// ErrNoMonsters is returned when an engine has no monster definitions to
// spawn from.
var ErrNoMonsters = errors.New("battle: no monster definitions loaded")

// Encounter sizing: one extra monster every three stages, capped at three.
const (
	monstersPerStages = 3
	maxMonsters       = 3
)

// Engine spawns encounters from the loaded monster catalog.
type Engine struct {
	reg    *item.Registry
	defs   []*MonsterDef
	src    dice.Source
	logger *zap.Logger
}

// NewEngine returns an Engine spawning from defs and rolling with src.
//
// Precondition: reg and src must be non-nil.
// Postcondition: a nil logger falls back to a no-op logger.
func NewEngine(reg *item.Registry, defs []*MonsterDef, src dice.Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{reg: reg, defs: defs, src: src, logger: logger}
}

// StartBattle spawns a stage-scaled encounter for the player. The pack holds
// min(stage/3 + 1, 3) monsters drawn uniformly from the catalog.
//
// Precondition: player and store must be non-nil.
// Postcondition: the returned battle is in StateOngoing, or an error is
// returned when stage < 1 or no monsters are loaded.
func (e *Engine) StartBattle(player *character.Character, store *inventory.Store, stage int) (*Battle, error) {
	if stage < 1 {
		return nil, fmt.Errorf("battle: Engine.StartBattle: stage must be >= 1, got %d", stage)
	}
	if len(e.defs) == 0 {
		return nil, fmt.Errorf("battle: Engine.StartBattle: %w", ErrNoMonsters)
	}

	count := stage/monstersPerStages + 1
	if count > maxMonsters {
		count = maxMonsters
	}
	monsters := make([]*Monster, 0, count)
	for i := 0; i < count; i++ {
		def := e.defs[e.src.Intn(len(e.defs))]
		monsters = append(monsters, newMonster(def, stage))
	}

	b := &Battle{
		id:       uuid.NewString(),
		stage:    stage,
		state:    StateOngoing,
		player:   player,
		store:    store,
		reg:      e.reg,
		monsters: monsters,
		src:      e.src,
		logger:   e.logger,
	}
	b.log = append(b.log, LogEntry{Kind: LogSystem, Message: encounterMessage(stage, monsters)})

	e.logger.Info("battle started",
		zap.String("battle", b.id),
		zap.Int("stage", stage),
		zap.Int("monsters", len(monsters)))
	return b, nil
}

func encounterMessage(stage int, monsters []*Monster) string {
	return fmt.Sprintf("stage %d: %d monster(s) appear", stage, len(monsters))
}

func attackMessage(weaponName string, target *Monster, dmg int) string {
	return fmt.Sprintf("you hit %s with %s for %d damage", target.Name(), weaponName, dmg)
}

func defendMessage(restored int) string {
	return fmt.Sprintf("you brace for the next blow and recover %d MP", restored)
}

func notEnoughMPMessage(skill Skill) string {
	return fmt.Sprintf("not enough MP for %s (need %d)", skill.Name, skill.MPCost)
}

func skillMessage(skill Skill, target *Monster, dmg int) string {
	if skill.Effect == EffectNone || skill.Effect == EffectAll {
		return fmt.Sprintf("%s hits %s for %d damage", skill.Name, target.Name(), dmg)
	}
	return fmt.Sprintf("%s hits %s for %d damage (%s)", skill.Name, target.Name(), dmg, skill.Effect)
}

func monsterHitMessage(m *Monster, dmg int) string {
	return fmt.Sprintf("%s hits you for %d damage", m.Name(), dmg)
}
