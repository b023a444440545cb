package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herosdawn/herosdawn/internal/game/battle"
	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
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

func battleRegistry(t *testing.T) *item.Registry {
	t.Helper()
	reg := item.NewRegistry()
	defs := []*item.TemplateDef{
		{ID: "sword_iron", Name: "Iron Sword", Type: "weapon", Rarity: "common", Level: 1, Value: 50, Durability: 30, Stats: map[string]int{"attack": 12}},
		{ID: "excalibur", Name: "Excalibur", Type: "weapon", Rarity: "mythic", Level: 30, Value: 2000, Durability: 200, Stats: map[string]int{"attack": 30}},
		{ID: "potion_health_minor", Name: "Minor Health Potion", Type: "potion", Rarity: "common", Level: 1, Value: 15, Stats: map[string]int{"hpRestore": 30}},
		{ID: "armor_leather", Name: "Leather Armor", Type: "armor", Rarity: "common", Level: 1, Value: 45, Durability: 25, Stats: map[string]int{"defense": 5}},
	}
	for _, d := range defs {
		require.NoError(t, reg.Register(item.NewTemplate(d)))
	}
	return reg
}

var slimeDef = &battle.MonsterDef{ID: "slime", Name: "Slime", HP: 20, Attack: 5, Defense: 2, Weakness: "ice"}

type fixture struct {
	reg    *item.Registry
	store  *inventory.Store
	player *character.Character
	sword  *item.Instance
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := battleRegistry(t)
	store := inventory.NewStore(reg, 30)
	sword, err := reg.CreateItem("sword_iron", item.Overrides{})
	require.NoError(t, err)
	store.Add(sword)
	require.True(t, store.Equip(sword.ID()))
	return &fixture{reg: reg, store: store, player: character.New("Hero"), sword: sword}
}

func startBattle(t *testing.T, f *fixture, stage int, rolls []int) *battle.Battle {
	t.Helper()
	src := &scriptedSource{values: rolls}
	eng := battle.NewEngine(f.reg, []*battle.MonsterDef{slimeDef}, src, nil)
	b, err := eng.StartBattle(f.player, f.store, stage)
	require.NoError(t, err)
	return b
}

func TestStartBattle_MonsterCountAndScaling(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		stage, count int
	}{
		{1, 1}, {2, 1}, {3, 2}, {6, 3}, {20, 3},
	}
	for _, tc := range cases {
		b := startBattle(t, f, tc.stage, []int{0})
		assert.Len(t, b.Monsters(), tc.count, "stage %d", tc.stage)
	}

	// Stage 5: scale 1.5 floors onto every stat.
	b := startBattle(t, f, 5, []int{0})
	m := b.Monsters()[0]
	assert.Equal(t, 30, m.HP(), "floor(20 * 1.5)")
	assert.Equal(t, 7, m.Attack(), "floor(5 * 1.5)")
	assert.Equal(t, 3, m.Defense(), "floor(2 * 1.5)")
	assert.Equal(t, "ice", m.Weakness())
}

func TestStartBattle_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	src := &scriptedSource{values: []int{0}}

	eng := battle.NewEngine(f.reg, []*battle.MonsterDef{slimeDef}, src, nil)
	_, err := eng.StartBattle(f.player, f.store, 0)
	assert.Error(t, err)

	empty := battle.NewEngine(f.reg, nil, src, nil)
	_, err = empty.StartBattle(f.player, f.store, 1)
	assert.ErrorIs(t, err, battle.ErrNoMonsters)
}

// TestAttack_DamageFormulaAndSweep drives one round on a stage-1 slime
// (hp 22, atk 5, def 2) and checks both damage formulas exactly.
func TestAttack_DamageFormulaAndSweep(t *testing.T) {
	f := newFixture(t)
	// rolls: monster pick, attack roll 2, sweep roll 1
	b := startBattle(t, f, 1, []int{0, 2, 1})

	res := b.SubmitAction(battle.ActionAttack)
	assert.Equal(t, battle.StateOngoing, res.State)

	m := b.Monsters()[0]
	// dmg = 12 + 2 - floor(2/2) = 13; hp 22 -> 9
	assert.Equal(t, 9, m.HP())
	// sweep = 5 + 1 = 6
	assert.Equal(t, 94, f.player.HP())
	require.Len(t, res.Entries, 2)
	assert.Equal(t, battle.LogPlayer, res.Entries[0].Kind)
	assert.Equal(t, battle.LogMonster, res.Entries[1].Kind)
}

func TestAttack_MinimumDamageIsOne(t *testing.T) {
	f := newFixture(t)
	f.store.Unequip(f.sword.ID())
	// Fists (atk 5) against stage 20 slime: def floor(2*3) = 6, dmg = 5+0-3 = 2.
	// Stage 30 slime: def floor(2*4) = 8, dmg = 5+0-4 = 1 either way >= 1.
	b := startBattle(t, f, 30, []int{0})
	res := b.SubmitAction(battle.ActionAttack)
	m := b.Monsters()[0]
	assert.Equal(t, m.MaxHP()-1, m.HP(), "damage floors at 1")
	assert.NotEqual(t, battle.StateVictory, res.State)
}

func TestDefend_HalvesSweepAndRestoresMP(t *testing.T) {
	f := newFixture(t)
	f.player.SpendMana(20)
	// rolls: monster pick, sweep roll 1 (defended), attack roll 0, sweep roll 1
	b := startBattle(t, f, 1, []int{0, 1, 0, 1})

	res := b.SubmitAction(battle.ActionDefend)
	assert.Equal(t, battle.StateOngoing, res.State)
	assert.Equal(t, 35, f.player.MP(), "restores floor(50 * 0.1)")
	// sweep = floor((5 + 1) * 0.5) = 3
	assert.Equal(t, 97, f.player.HP())

	// Defend flag is consumed: next sweep lands at full strength.
	b.SubmitAction(battle.ActionAttack)
	assert.Equal(t, 91, f.player.HP(), "6 more damage, undefended")
}

func TestSpecial_InsufficientMPIsNoOp(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.player.SpendMana(50))
	b := startBattle(t, f, 1, []int{0})

	res := b.SubmitAction(battle.ActionSpecial)
	assert.Equal(t, battle.StateOngoing, res.State)
	assert.Equal(t, 0, f.player.MP(), "no MP spent")
	assert.Equal(t, 100, f.player.HP(), "monsters do not sweep")
	assert.Equal(t, 22, b.Monsters()[0].HP(), "no damage dealt")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, battle.LogSystem, res.Entries[0].Kind)
}

func TestSpecial_CommonSkillDamage(t *testing.T) {
	f := newFixture(t)
	// Stage 2 slime: hp 24, def 2. Quick Slash roll 2:
	// dmg = floor((12+10+2) * 1.5) - floor(2/3) = 36, kills instantly.
	// rolls: monster pick, skill roll 2, expVar, goldVar, drop roll 99 (fails, chance 50)
	b := startBattle(t, f, 2, []int{0, 2, 4, 3, 99})

	res := b.SubmitAction(battle.ActionSpecial)
	assert.Equal(t, battle.StateVictory, res.State)
	assert.Equal(t, 45, f.player.MP(), "Quick Slash costs 5 MP")
	assert.Equal(t, "", b.Monsters()[0].Status(), "common skill applies no status")
}

func TestSpecial_MythicSkillHitsAllMonsters(t *testing.T) {
	f := newFixture(t)
	excalibur, err := f.reg.CreateItem("excalibur", item.Overrides{})
	require.NoError(t, err)
	f.store.Add(excalibur)
	require.True(t, f.store.Equip(excalibur.ID()))
	f.player.GainExp(1000) // enough MP for Phoenix Slash

	// Stage 6: three monsters.
	// rolls: 3 monster picks, 3 skill rolls, expVar, goldVar, drop roll 99
	b := startBattle(t, f, 6, []int{0, 0, 0, 0, 0, 0, 99, 99, 99})
	require.Len(t, b.Monsters(), 3)

	res := b.SubmitAction(battle.ActionSpecial)
	assert.Equal(t, battle.StateVictory, res.State, "Phoenix Slash sweeps the pack")
	for _, m := range b.Monsters() {
		assert.False(t, m.Alive())
		assert.Equal(t, battle.EffectAll, m.Status())
	}
}

func TestEscape(t *testing.T) {
	f := newFixture(t)
	// Stage 1 escape chance is 45%. Roll 10 succeeds.
	b := startBattle(t, f, 1, []int{0, 10})
	res := b.SubmitAction(battle.ActionEscape)
	assert.Equal(t, battle.StateEscaped, res.State)
	assert.Equal(t, 100, f.player.HP())

	// Roll 90 fails and the round is consumed by the sweep.
	f2 := newFixture(t)
	b2 := startBattle(t, f2, 1, []int{0, 90, 1})
	res2 := b2.SubmitAction(battle.ActionEscape)
	assert.Equal(t, battle.StateOngoing, res2.State)
	assert.Equal(t, 94, f2.player.HP(), "failed escape still eats a sweep")

	// Stage 10 and above the chance bottoms out at 0.
	f3 := newFixture(t)
	b3 := startBattle(t, f3, 10, []int{0, 0, 0, 0, 0, 0, 0})
	res3 := b3.SubmitAction(battle.ActionEscape)
	assert.Equal(t, battle.StateOngoing, res3.State, "escape is impossible at stage 10")
}

func TestVictory_RewardFormulasAndWeaponWear(t *testing.T) {
	f := newFixture(t)
	// rolls: monster pick, attack roll 4 (dmg 12+4-1 = 15), second attack roll 4,
	// then expVar 7, goldVar 3, drop roll 99 (chance 45, fails)
	b := startBattle(t, f, 1, []int{0, 4, 1, 4, 7, 3, 99})

	b.SubmitAction(battle.ActionAttack) // slime 22 -> 7, sweep 6
	res := b.SubmitAction(battle.ActionAttack)
	require.Equal(t, battle.StateVictory, res.State)
	require.NotNil(t, res.Rewards)

	assert.Equal(t, 57, res.Rewards.Exp, "50*1 + 7")
	assert.Equal(t, 23, res.Rewards.Gold, "20*1 + 3")
	assert.Equal(t, 57, f.player.Exp())
	assert.Equal(t, 23, f.store.Gold())
	assert.Empty(t, res.Rewards.ItemTemplateID)

	got, ok := f.store.GetItem(f.sword.ID())
	require.True(t, ok)
	assert.Equal(t, 29, got.Durability(), "victory wears the weapon by 1")
}

func TestVictory_DropLottery(t *testing.T) {
	f := newFixture(t)
	// rolls: monster pick, attack 4, sweep 1, attack 4,
	// expVar 7, goldVar 3, drop roll 10 (succeeds), category 40 (potion), pick 0
	b := startBattle(t, f, 1, []int{0, 4, 1, 4, 7, 3, 10, 40, 0})

	b.SubmitAction(battle.ActionAttack)
	res := b.SubmitAction(battle.ActionAttack)
	require.Equal(t, battle.StateVictory, res.State)
	require.NotNil(t, res.Rewards)

	assert.Equal(t, "potion_health_minor", res.Rewards.ItemTemplateID)
	assert.True(t, res.Rewards.ItemAdded)
	potions := f.store.ItemsByType(item.TypePotion)
	require.Len(t, potions, 1)
	assert.Equal(t, 1, potions[0].Count())
}

func TestDefeat_AndTerminalStatesAbsorbActions(t *testing.T) {
	f := newFixture(t)
	f.player.TakeDamage(95) // 5 HP left
	b := startBattle(t, f, 1, []int{0, 0, 1})

	res := b.SubmitAction(battle.ActionAttack)
	assert.Equal(t, battle.StateDefeat, res.State)
	assert.True(t, f.player.IsDead())

	// Terminal state: further actions are no-ops with no new entries.
	logLen := len(b.Log())
	res = b.SubmitAction(battle.ActionAttack)
	assert.Equal(t, battle.StateDefeat, res.State)
	assert.Empty(t, res.Entries)
	assert.Len(t, b.Log(), logLen)
	assert.False(t, b.Locked())
}
