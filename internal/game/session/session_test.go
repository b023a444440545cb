package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herosdawn/herosdawn/internal/config"
	"github.com/herosdawn/herosdawn/internal/game/battle"
	"github.com/herosdawn/herosdawn/internal/game/item"
	"github.com/herosdawn/herosdawn/internal/game/quest"
	"github.com/herosdawn/herosdawn/internal/game/session"
	"github.com/herosdawn/herosdawn/internal/storage"
)

// scriptedSource replays a fixed list of rolls, reducing each modulo n.
type scriptedSource struct {
	values []int
	idx    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return v % n
}

func sessionRegistry(t *testing.T) *item.Registry {
	t.Helper()
	reg := item.NewRegistry()
	defs := []*item.TemplateDef{
		{ID: "sword_iron", Name: "Iron Sword", Type: "weapon", Rarity: "common", Level: 1, Value: 50, Durability: 30, Stats: map[string]int{"attack": 12}},
		{ID: "armor_leather", Name: "Leather Armor", Type: "armor", Rarity: "common", Level: 1, Value: 45, Durability: 25, Stats: map[string]int{"defense": 5}},
		{ID: "potion_health_minor", Name: "Minor Health Potion", Type: "potion", Rarity: "common", Level: 1, Value: 15, Stats: map[string]int{"hpRestore": 30}},
	}
	for _, d := range defs {
		require.NoError(t, reg.Register(item.NewTemplate(d)))
	}
	return reg
}

func gameConfig() config.GameConfig {
	return config.GameConfig{
		MaxSlots:     30,
		StartingGold: 100,
		LootRollMode: "weighted",
		SaveBackend:  "file",
		SaveSlot:     "default",
	}
}

var zombieDef = &battle.MonsterDef{ID: "zombie", Name: "Zombie", HP: 30, Attack: 8, Defense: 4, Weakness: "fire"}

func killQuestDefs() []*quest.QuestDef {
	return []*quest.QuestDef{{
		ID: "quest_003", Name: "Defend the Village", Status: "in-progress",
		Requirement: quest.RequirementDef{Kind: quest.RequireKill, Target: "zombie", Count: 5},
		Reward:      quest.RewardDef{Exp: 150, Gold: 100},
	}}
}

func newSession(t *testing.T, dir string, rolls []int) *session.Session {
	t.Helper()
	saves, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	s, err := session.New(session.Deps{
		Config:   gameConfig(),
		Registry: sessionRegistry(t),
		Monsters: []*battle.MonsterDef{zombieDef},
		Quests:   killQuestDefs(),
		Saves:    saves,
		Source:   &scriptedSource{values: rolls},
	})
	require.NoError(t, err)
	return s
}

func TestNew_StarterKit(t *testing.T) {
	s := newSession(t, t.TempDir(), []int{0})

	assert.Equal(t, 100, s.Store().Gold())
	assert.Equal(t, "Hero", s.Character().Name())

	weapon, ok := s.Store().EquippedByType(item.TypeWeapon)
	require.True(t, ok)
	assert.Equal(t, "sword_iron", weapon.Template().ID())

	armor, ok := s.Store().EquippedByType(item.TypeArmor)
	require.True(t, ok)
	assert.Equal(t, "armor_leather", armor.Template().ID())

	potions := s.Store().ItemsByType(item.TypePotion)
	require.Len(t, potions, 1)
	assert.Equal(t, 3, potions[0].Count())
}

func TestUseItem(t *testing.T) {
	s := newSession(t, t.TempDir(), []int{0})
	s.Character().TakeDamage(50)

	potions := s.Store().ItemsByType(item.TypePotion)
	require.Len(t, potions, 1)
	assert.True(t, s.UseItem(potions[0].ID()))
	assert.Equal(t, 80, s.Character().HP())
	assert.Equal(t, 2, potions[0].Count())
}

func TestBattle_VictoryRecordsQuestKills(t *testing.T) {
	// Zombie at stage 1: hp 33, def 4. Attack dmg = 12 + 4 - 2 = 14.
	// Three attacks kill it; two sweeps land in between.
	rolls := []int{
		0,       // monster pick
		4, 1,    // attack, sweep
		4, 1,    // attack, sweep
		4,       // killing attack
		0, 0, 0, // expVar, goldVar, drop roll 0 -> bonus? roll 0 < 45 succeeds
		0, 0, // category roll 0 -> bonus gold, bonus var
	}
	s := newSession(t, t.TempDir(), rolls)

	_, err := s.StartBattle(1)
	require.NoError(t, err)
	_, err = s.StartBattle(1)
	assert.ErrorIs(t, err, session.ErrBattleInProgress)

	var res battle.Result
	for i := 0; i < 3; i++ {
		res, err = s.SubmitBattleAction(battle.ActionAttack)
		require.NoError(t, err)
	}
	assert.Equal(t, battle.StateVictory, res.State)
	assert.Nil(t, s.CurrentBattle(), "finished battle is cleared")

	current, _, err := s.Quests().Progress("quest_003", s.Store())
	require.NoError(t, err)
	assert.Equal(t, 1, current, "zombie kill recorded")

	_, err = s.SubmitBattleAction(battle.ActionAttack)
	assert.ErrorIs(t, err, session.ErrNoBattle)
}

func TestShop_BuyAndSell(t *testing.T) {
	// Rolls: rarity 0 (common), template pick 0 for each shop slot.
	s := newSession(t, t.TempDir(), []int{0})

	stock := s.RefreshShop(2)
	require.Len(t, stock, 2)
	price := stock[0].Template().Value()

	goldBefore := s.Store().Gold()
	slotsBefore := s.Store().SlotsUsed()
	require.True(t, s.BuyShopItem(0))
	assert.Equal(t, goldBefore-price, s.Store().Gold())
	assert.Len(t, s.ShopStock(), 1, "bought entry leaves the stock")
	assert.GreaterOrEqual(t, s.Store().SlotsUsed(), slotsBefore)

	assert.False(t, s.BuyShopItem(5), "out of range")

	// Selling pays half value per unit and rejects equipped items.
	weapon, ok := s.Store().EquippedByType(item.TypeWeapon)
	require.True(t, ok)
	_, sold := s.SellItem(weapon.ID(), 1)
	assert.False(t, sold, "equipped items cannot be sold")

	potions := s.Store().ItemsByType(item.TypePotion)
	require.NotEmpty(t, potions)
	goldBefore = s.Store().Gold()
	earned, sold := s.SellItem(potions[0].ID(), 2)
	require.True(t, sold)
	assert.Equal(t, (15/2)*2, earned)
	assert.Equal(t, goldBefore+earned, s.Store().Gold())
}

func TestShop_BuyFailsWhenGoldShort(t *testing.T) {
	s := newSession(t, t.TempDir(), []int{0})
	require.True(t, s.Store().SpendGold(s.Store().Gold()), "drain the wallet")

	stock := s.RefreshShop(1)
	require.NotEmpty(t, stock)
	assert.False(t, s.BuyShopItem(0))
	assert.Len(t, s.ShopStock(), 1, "stock untouched on failed purchase")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := newSession(t, dir, []int{0})
	s.Character().GainExp(130)
	s.Store().AddGold(400)
	require.NoError(t, s.Save(ctx))

	s2 := newSession(t, dir, []int{0})
	require.True(t, s2.Load(ctx))

	assert.Equal(t, 2, s2.Character().Level())
	assert.Equal(t, 30, s2.Character().Exp())
	assert.Equal(t, 500, s2.Store().Gold())

	weapon, ok := s2.Store().EquippedByType(item.TypeWeapon)
	require.True(t, ok)
	assert.Equal(t, "sword_iron", weapon.Template().ID())
}

func TestLoad_MissingSaveStartsFresh(t *testing.T) {
	s := newSession(t, t.TempDir(), []int{0})
	assert.False(t, s.Load(context.Background()))
	assert.Equal(t, 100, s.Store().Gold(), "fresh game state intact")
}

func TestLoad_CorruptSaveStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), []byte("{not json"), 0o644))

	s := newSession(t, dir, []int{0})
	s.Store().AddGold(999)
	assert.False(t, s.Load(context.Background()))
	assert.Equal(t, 100, s.Store().Gold(), "corrupt save resets to a fresh game")
}

func TestDeleteSave(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := newSession(t, dir, []int{0})
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.DeleteSave(ctx))
	assert.False(t, s.Load(ctx))
}
