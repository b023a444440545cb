// Package session wires the game's pieces into one playable state: catalog,
// inventory, character, quests, loot, battles, and persistence.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/herosdawn/herosdawn/internal/config"
	"github.com/herosdawn/herosdawn/internal/game/battle"
	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/dice"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
	"github.com/herosdawn/herosdawn/internal/game/loot"
	"github.com/herosdawn/herosdawn/internal/game/quest"
	"github.com/herosdawn/herosdawn/internal/storage"
)

// saveVersion is the schema version of the session save payload.
const saveVersion = 1

// defaultPlayerName is used when Deps.PlayerName is empty.
const defaultPlayerName = "Hero"

// starterKit is the loadout of a brand-new game.
var starterKit = []struct {
	templateID string
	count      int
	equip      bool
}{
	{"sword_iron", 1, true},
	{"armor_leather", 1, true},
	{"potion_health_minor", 3, false},
}

// ErrNoBattle is returned when a battle action arrives with no battle running.
var ErrNoBattle = errors.New("session: no battle in progress")

// ErrBattleInProgress is returned when a battle is started over a running one.
var ErrBattleInProgress = errors.New("session: battle already in progress")

// Deps are the collaborators a Session is built from.
type Deps struct {
	Config     config.GameConfig
	Logger     *zap.Logger
	Registry   *item.Registry
	Monsters   []*battle.MonsterDef
	Quests     []*quest.QuestDef
	Saves      storage.SaveStore
	// Source supplies randomness; nil falls back to the crypto source.
	Source     dice.Source
	PlayerName string
}

// Session owns one player's full game state.
//
// Not safe for concurrent use by multiple goroutines.
type Session struct {
	cfg    config.GameConfig
	logger *zap.Logger

	reg       *item.Registry
	store     *inventory.Store
	player    *character.Character
	quests    *quest.Log
	generator *loot.Generator
	engine    *battle.Engine
	saves     storage.SaveStore
	slot      string

	current *battle.Battle
	shop    []*item.Instance
}

// saveData is the JSON payload persisted per slot.
type saveData struct {
	Version   int                `json:"version"`
	SavedAt   time.Time          `json:"saved_at"`
	Character character.Snapshot `json:"character"`
	Inventory inventory.Snapshot `json:"inventory"`
	Quests    quest.Snapshot     `json:"quests"`
}

// New builds a Session with a fresh game state. Call Load afterwards to
// resume a saved game.
//
// Precondition: deps.Registry and deps.Saves must be non-nil.
// Postcondition: the session holds a starter inventory and default vitals.
func New(deps Deps) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := deps.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}
	name := deps.PlayerName
	if name == "" {
		name = defaultPlayerName
	}

	quests, err := quest.NewLog(deps.Quests)
	if err != nil {
		return nil, fmt.Errorf("session: New: %w", err)
	}

	s := &Session{
		cfg:       deps.Config,
		logger:    logger,
		reg:       deps.Registry,
		quests:    quests,
		generator: loot.NewGenerator(deps.Registry, src, loot.RollMode(deps.Config.LootRollMode), logger),
		engine:    battle.NewEngine(deps.Registry, deps.Monsters, src, logger),
		saves:     deps.Saves,
		slot:      deps.Config.SaveSlot,
	}
	s.newGame(name)
	return s, nil
}

// newGame resets the character, inventory, and quest log to their starting
// state and grants the starter kit.
func (s *Session) newGame(name string) {
	s.player = character.New(name)
	s.store = inventory.NewStore(s.reg, s.cfg.MaxSlots)
	s.store.AddGold(s.cfg.StartingGold)
	s.current = nil
	s.shop = nil

	for _, kit := range starterKit {
		inst, err := s.reg.CreateItem(kit.templateID, item.Overrides{Count: kit.count})
		if err != nil {
			s.logger.Warn("starter item missing from catalog", zap.String("template", kit.templateID))
			continue
		}
		s.store.Add(inst)
		if kit.equip {
			s.store.Equip(inst.ID())
		}
	}
}

// Registry returns the template catalog.
func (s *Session) Registry() *item.Registry { return s.reg }

// Store returns the inventory store.
func (s *Session) Store() *inventory.Store { return s.store }

// Character returns the player character.
func (s *Session) Character() *character.Character { return s.player }

// Quests returns the quest log.
func (s *Session) Quests() *quest.Log { return s.quests }

// Generator returns the loot generator.
func (s *Session) Generator() *loot.Generator { return s.generator }

// CurrentBattle returns the running battle, or nil.
func (s *Session) CurrentBattle() *battle.Battle { return s.current }

// UseItem consumes one unit of the identified potion or food.
func (s *Session) UseItem(instanceID string) bool {
	return s.player.UseConsumable(s.store, instanceID)
}

// RefreshShop rolls fresh shop stock from the loot generator, sized to the
// player's level.
//
// Postcondition: the previous stock is discarded; the result may hold fewer
// than slots entries when rarity rolls land on empty pools.
func (s *Session) RefreshShop(slots int) []*item.Instance {
	s.shop = s.generator.Generate(s.player.Level(), slots)
	return s.ShopStock()
}

// ShopStock returns the current shop stock.
func (s *Session) ShopStock() []*item.Instance {
	out := make([]*item.Instance, len(s.shop))
	copy(out, s.shop)
	return out
}

// BuyShopItem purchases the stock entry at index i for its template value.
//
// Postcondition: returns false and changes nothing when the index is out of
// range, gold is short, or the inventory has no room.
func (s *Session) BuyShopItem(i int) bool {
	if i < 0 || i >= len(s.shop) {
		return false
	}
	inst := s.shop[i]
	price := inst.Template().Value()
	if s.store.CanAdd(inst.Template(), 1) == 0 {
		return false
	}
	if !s.store.SpendGold(price) {
		return false
	}
	s.store.Add(inst)
	s.shop = append(s.shop[:i], s.shop[i+1:]...)
	return true
}

// SellItem sells count units of the identified instance for half value each.
//
// Postcondition: returns the gold earned and false when the instance is
// absent, equipped, or holds fewer than count units.
func (s *Session) SellItem(instanceID string, count int) (int, bool) {
	inst, ok := s.store.GetItem(instanceID)
	if !ok || inst.Equipped() || count < 1 || inst.Count() < count {
		return 0, false
	}
	earned := inst.Template().Value() / 2 * count
	s.store.Remove(instanceID, count)
	s.store.AddGold(earned)
	return earned, true
}

// StartBattle spawns an encounter at the given stage.
//
// Postcondition: returns ErrBattleInProgress while a battle is ongoing.
func (s *Session) StartBattle(stage int) (*battle.Battle, error) {
	if s.current != nil && s.current.State() == battle.StateOngoing {
		return nil, ErrBattleInProgress
	}
	b, err := s.engine.StartBattle(s.player, s.store, stage)
	if err != nil {
		return nil, err
	}
	s.current = b
	return b, nil
}

// SubmitBattleAction resolves one action of the running battle. When the
// battle ends in victory, kills are recorded against the quest log and the
// battle is cleared.
func (s *Session) SubmitBattleAction(kind battle.ActionKind) (battle.Result, error) {
	if s.current == nil {
		return battle.Result{}, ErrNoBattle
	}
	res := s.current.SubmitAction(kind)
	if res.State == battle.StateVictory {
		for _, m := range s.current.Monsters() {
			if !m.Alive() {
				s.quests.RecordKill(m.ID())
			}
		}
	}
	if res.State != battle.StateOngoing {
		s.logger.Info("battle finished",
			zap.String("battle", s.current.ID()),
			zap.String("state", string(res.State)))
		s.current = nil
	}
	return res, nil
}

// Save persists the session to its save slot.
//
// Postcondition: a subsequent Load restores the same character, inventory,
// and quest state.
func (s *Session) Save(ctx context.Context) error {
	data := saveData{
		Version:   saveVersion,
		SavedAt:   time.Now().UTC(),
		Character: s.player.Snapshot(),
		Inventory: s.store.Snapshot(),
		Quests:    s.quests.Snapshot(),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: Save: %w", err)
	}
	if err := s.saves.Save(ctx, s.slot, payload); err != nil {
		return fmt.Errorf("session: Save: %w", err)
	}
	s.logger.Info("game saved", zap.String("slot", s.slot))
	return nil
}

// Load restores the session from its save slot. A missing, corrupt, or
// incompatible save is never fatal: the session falls back to a fresh game
// and reports loaded=false.
func (s *Session) Load(ctx context.Context) (loaded bool) {
	payload, err := s.saves.Load(ctx, s.slot)
	if err != nil {
		if !errors.Is(err, storage.ErrSaveNotFound) {
			s.logger.Warn("save unreadable, starting fresh", zap.String("slot", s.slot), zap.Error(err))
		}
		return false
	}

	var data saveData
	if err := json.Unmarshal(payload, &data); err != nil {
		s.logger.Warn("save corrupt, starting fresh", zap.String("slot", s.slot), zap.Error(err))
		s.newGame(s.player.Name())
		return false
	}
	if data.Version != saveVersion {
		s.logger.Warn("save version unsupported, starting fresh",
			zap.String("slot", s.slot),
			zap.Int("version", data.Version))
		s.newGame(s.player.Name())
		return false
	}

	store := inventory.NewStore(s.reg, s.cfg.MaxSlots)
	dropped, err := store.Restore(data.Inventory)
	if err != nil {
		s.logger.Warn("save inventory unusable, starting fresh", zap.String("slot", s.slot), zap.Error(err))
		s.newGame(s.player.Name())
		return false
	}
	for _, id := range dropped {
		s.logger.Warn("saved item no longer in catalog, dropped", zap.String("template", id))
	}

	s.store = store
	s.player.Restore(data.Character)
	s.quests.Restore(data.Quests)
	s.current = nil
	s.logger.Info("game loaded", zap.String("slot", s.slot), zap.Time("saved_at", data.SavedAt))
	return true
}

// DeleteSave removes the session's save slot.
func (s *Session) DeleteSave(ctx context.Context) error {
	return s.saves.Delete(ctx, s.slot)
}
