package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
)

func TestNew_StartingVitals(t *testing.T) {
	c := character.New("Hero")
	assert.Equal(t, 1, c.Level())
	assert.Equal(t, 100, c.HP())
	assert.Equal(t, 100, c.MaxHP())
	assert.Equal(t, 50, c.MP())
	assert.Equal(t, 50, c.MaxMP())
	assert.Equal(t, 0, c.Exp())
	assert.Equal(t, 100, c.MaxExp())
}

func TestTakeDamageAndHeal_Clamped(t *testing.T) {
	c := character.New("Hero")
	c.TakeDamage(30)
	assert.Equal(t, 70, c.HP())
	c.TakeDamage(999)
	assert.Equal(t, 0, c.HP())
	assert.True(t, c.IsDead())
	c.Heal(40)
	assert.Equal(t, 40, c.HP())
	c.Heal(999)
	assert.Equal(t, 100, c.HP())
	c.TakeDamage(-10)
	assert.Equal(t, 100, c.HP())
}

func TestSpendMana(t *testing.T) {
	c := character.New("Hero")
	assert.True(t, c.SpendMana(20))
	assert.Equal(t, 30, c.MP())
	assert.False(t, c.SpendMana(31), "MP left untouched on shortfall")
	assert.Equal(t, 30, c.MP())
	c.RestoreMana(999)
	assert.Equal(t, 50, c.MP())
}

// TestGainExp_LevelUp verifies the progression arithmetic: remainder carries,
// requirement grows by 1.2 floored, caps rise, vitals refill.
func TestGainExp_LevelUp(t *testing.T) {
	c := character.New("Hero")
	c.TakeDamage(60)

	levels := c.GainExp(130)
	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, c.Level())
	assert.Equal(t, 30, c.Exp(), "remainder carries over")
	assert.Equal(t, 120, c.MaxExp(), "floor(100 * 1.2)")
	assert.Equal(t, 110, c.MaxHP())
	assert.Equal(t, 55, c.MaxMP())
	assert.Equal(t, 110, c.HP(), "level-up heals to full")
	assert.Equal(t, 55, c.MP())
}

func TestGainExp_MultipleLevels(t *testing.T) {
	c := character.New("Hero")
	// 100 + 120 = 220 to reach level 3.
	levels := c.GainExp(225)
	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, c.Level())
	assert.Equal(t, 5, c.Exp())
	assert.Equal(t, 144, c.MaxExp(), "floor(120 * 1.2)")
}

func consumableRegistry(t *testing.T) *item.Registry {
	t.Helper()
	reg := item.NewRegistry()
	defs := []*item.TemplateDef{
		{ID: "potion_health_minor", Name: "Minor Health Potion", Type: "potion", Rarity: "common", Level: 1, Value: 15, Stats: map[string]int{"hpRestore": 30}},
		{ID: "potion_mana_minor", Name: "Minor Mana Potion", Type: "potion", Rarity: "common", Level: 1, Value: 15, Stats: map[string]int{"mpRestore": 20}},
		{ID: "sword_iron", Name: "Iron Sword", Type: "weapon", Rarity: "common", Level: 1, Value: 50},
	}
	for _, d := range defs {
		require.NoError(t, reg.Register(item.NewTemplate(d)))
	}
	return reg
}

func TestUseConsumable(t *testing.T) {
	reg := consumableRegistry(t)
	s := inventory.NewStore(reg, 30)
	c := character.New("Hero")
	c.TakeDamage(50)
	c.SpendMana(25)

	potion, err := reg.CreateItem("potion_health_minor", item.Overrides{Count: 2})
	require.NoError(t, err)
	s.Add(potion)

	assert.True(t, c.UseConsumable(s, potion.ID()))
	assert.Equal(t, 80, c.HP())
	got, ok := s.GetItem(potion.ID())
	require.True(t, ok)
	assert.Equal(t, 1, got.Count(), "one unit consumed")

	mana, err := reg.CreateItem("potion_mana_minor", item.Overrides{})
	require.NoError(t, err)
	s.Add(mana)
	assert.True(t, c.UseConsumable(s, mana.ID()))
	assert.Equal(t, 45, c.MP())
	_, ok = s.GetItem(mana.ID())
	assert.False(t, ok, "emptied stack removed")
}

func TestUseConsumable_RejectsNonConsumables(t *testing.T) {
	reg := consumableRegistry(t)
	s := inventory.NewStore(reg, 30)
	c := character.New("Hero")

	sword, err := reg.CreateItem("sword_iron", item.Overrides{})
	require.NoError(t, err)
	s.Add(sword)

	assert.False(t, c.UseConsumable(s, sword.ID()))
	assert.False(t, c.UseConsumable(s, "missing"))
	_, ok := s.GetItem(sword.ID())
	assert.True(t, ok, "nothing removed")
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	c := character.New("Hero")
	c.GainExp(150)
	c.TakeDamage(25)
	c.SpendMana(10)

	snap := c.Snapshot()
	restored := character.New("other")
	restored.Restore(snap)

	assert.Equal(t, c.Name(), restored.Name())
	assert.Equal(t, c.Level(), restored.Level())
	assert.Equal(t, c.HP(), restored.HP())
	assert.Equal(t, c.MP(), restored.MP())
	assert.Equal(t, c.Exp(), restored.Exp())
	assert.Equal(t, c.MaxExp(), restored.MaxExp())
}
