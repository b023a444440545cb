package quest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herosdawn/herosdawn/internal/game/character"
	"github.com/herosdawn/herosdawn/internal/game/inventory"
	"github.com/herosdawn/herosdawn/internal/game/item"
	"github.com/herosdawn/herosdawn/internal/game/quest"
)

func questRegistry(t *testing.T) *item.Registry {
	t.Helper()
	reg := item.NewRegistry()
	defs := []*item.TemplateDef{
		{ID: "sword_iron", Name: "Iron Sword", Type: "weapon", Rarity: "common", Level: 1, Value: 50},
		{ID: "potion_health_minor", Name: "Minor Health Potion", Type: "potion", Rarity: "common", Level: 1, Value: 15},
	}
	for _, d := range defs {
		require.NoError(t, reg.Register(item.NewTemplate(d)))
	}
	return reg
}

func questDefs() []*quest.QuestDef {
	return []*quest.QuestDef{
		{
			ID: "quest_001", Name: "The Lost Sword", Status: "available",
			Requirement: quest.RequirementDef{Kind: quest.RequireItem, Target: "sword_iron", Count: 1},
			Reward: quest.RewardDef{
				Exp: 100, Gold: 50,
				Items: []quest.RewardItemDef{{TemplateID: "potion_health_minor", Count: 2}},
			},
		},
		{
			ID: "quest_002", Name: "Potion Delivery", Status: "locked", UnlockedBy: "quest_001",
			Requirement: quest.RequirementDef{Kind: quest.RequireItem, Target: "potion_health_minor", Count: 3},
			Reward:      quest.RewardDef{Exp: 50, Gold: 20},
		},
		{
			ID: "quest_003", Name: "Defend the Village", Status: "in-progress",
			Requirement: quest.RequirementDef{Kind: quest.RequireKill, Target: "zombie", Count: 5},
			Reward:      quest.RewardDef{Exp: 150, Gold: 100},
		},
	}
}

func TestNewLog_SeedsInitialStatuses(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)

	s, ok := l.Status("quest_001")
	require.True(t, ok)
	assert.Equal(t, quest.StatusAvailable, s)
	s, _ = l.Status("quest_002")
	assert.Equal(t, quest.StatusLocked, s)
	s, _ = l.Status("quest_003")
	assert.Equal(t, quest.StatusInProgress, s)

	_, ok = l.Status("quest_999")
	assert.False(t, ok)
}

func TestNewLog_RejectsDuplicateIDs(t *testing.T) {
	defs := questDefs()
	defs = append(defs, defs[0])
	_, err := quest.NewLog(defs)
	assert.Error(t, err)
}

func TestAccept(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)

	assert.True(t, l.Accept("quest_001"))
	s, _ := l.Status("quest_001")
	assert.Equal(t, quest.StatusInProgress, s)

	assert.False(t, l.Accept("quest_001"), "already in progress")
	assert.False(t, l.Accept("quest_002"), "still locked")
	assert.False(t, l.Accept("quest_999"))
}

func TestKillProgress(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	reg := questRegistry(t)
	s := inventory.NewStore(reg, 30)

	for i := 0; i < 3; i++ {
		l.RecordKill("zombie")
	}
	l.RecordKill("slime") // no quest targets slimes
	current, required, perr := l.Progress("quest_003", s)
	require.NoError(t, perr)
	assert.Equal(t, 3, current)
	assert.Equal(t, 5, required)
	assert.False(t, l.IsComplete("quest_003", s))

	for i := 0; i < 10; i++ {
		l.RecordKill("zombie")
	}
	current, _, _ = l.Progress("quest_003", s)
	assert.Equal(t, 5, current, "progress caps at the requirement")
	assert.True(t, l.IsComplete("quest_003", s))
}

func TestItemProgress_ReadLiveFromStore(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	reg := questRegistry(t)
	s := inventory.NewStore(reg, 30)
	require.True(t, l.Accept("quest_001"))

	assert.False(t, l.IsComplete("quest_001", s))

	sword, err := reg.CreateItem("sword_iron", item.Overrides{})
	require.NoError(t, err)
	s.Add(sword)
	assert.True(t, l.IsComplete("quest_001", s))

	s.Remove(sword.ID(), 1)
	assert.False(t, l.IsComplete("quest_001", s), "requirement re-evaluated against the store")
}

func TestClaim_PaysOutConsumesAndUnlocks(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	reg := questRegistry(t)
	s := inventory.NewStore(reg, 30)
	c := character.New("Hero")
	require.True(t, l.Accept("quest_001"))

	sword, err := reg.CreateItem("sword_iron", item.Overrides{})
	require.NoError(t, err)
	s.Add(sword)

	assert.True(t, l.Claim("quest_001", c, s, reg))

	status, _ := l.Status("quest_001")
	assert.Equal(t, quest.StatusCompleted, status)
	assert.Equal(t, 100, c.Exp(), "reward exp paid")
	assert.Equal(t, 50, s.Gold(), "reward gold paid")
	_, ok := s.GetItem(sword.ID())
	assert.False(t, ok, "required item consumed")

	potions := s.ItemsByType(item.TypePotion)
	require.Len(t, potions, 1)
	assert.Equal(t, 2, potions[0].Count(), "reward items added")

	status, _ = l.Status("quest_002")
	assert.Equal(t, quest.StatusAvailable, status, "completion unlocks the follow-up")

	assert.False(t, l.Claim("quest_001", c, s, reg), "completed quests cannot be claimed again")
}

func TestClaim_RejectsUnfulfilled(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	reg := questRegistry(t)
	s := inventory.NewStore(reg, 30)
	c := character.New("Hero")

	require.True(t, l.Accept("quest_001"))
	assert.False(t, l.Claim("quest_001", c, s, reg), "requirement not met")
	assert.Equal(t, 0, c.Exp())
	assert.Equal(t, 0, s.Gold())
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	require.True(t, l.Accept("quest_001"))
	l.RecordKill("zombie")
	l.RecordKill("zombie")

	snap := l.Snapshot()

	restored, err := quest.NewLog(questDefs())
	require.NoError(t, err)
	restored.Restore(snap)

	s, _ := restored.Status("quest_001")
	assert.Equal(t, quest.StatusInProgress, s)
	reg := questRegistry(t)
	store := inventory.NewStore(reg, 30)
	current, _, perr := restored.Progress("quest_003", store)
	require.NoError(t, perr)
	assert.Equal(t, 2, current)
}

func TestRestore_IgnoresUnknownEntries(t *testing.T) {
	l, err := quest.NewLog(questDefs())
	require.NoError(t, err)

	l.Restore(quest.Snapshot{
		Statuses: map[string]string{"quest_999": "completed", "quest_001": "bogus"},
		Kills:    map[string]int{"quest_999": 3, "quest_003": -1},
	})

	s, _ := l.Status("quest_001")
	assert.Equal(t, quest.StatusAvailable, s, "invalid status ignored")
}

func TestLoadQuests(t *testing.T) {
	const questsYAML = `quests:
  - id: quest_001
    name: The Lost Sword
    description: Recover the blacksmith's lost sword.
    status: available
    requirement:
      kind: item
      target: sword_iron
      count: 1
    reward:
      exp: 100
      gold: 50
      items:
        - template_id: potion_health_minor
          count: 2
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quests.yaml"), []byte(questsYAML), 0o644))

	defs, err := quest.LoadQuests(dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "quest_001", defs[0].ID)
	assert.Equal(t, quest.RequireItem, defs[0].Requirement.Kind)
	require.Len(t, defs[0].Reward.Items, 1)
	assert.Equal(t, 2, defs[0].Reward.Items[0].Count)
}
