package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/dateutil"
	"questlog/internal/quest"
	"questlog/internal/shop"
)

var restoreNow = time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)

func TestRestore_EmptyAndGarbageYieldDefaults(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("not json"), []byte(`[1,2,3]`)} {
		snap := Restore(raw, restoreNow)
		assert.Equal(t, Version, snap.Version)
		assert.Equal(t, 1, snap.Stats.Level)
		assert.Equal(t, 100, snap.Stats.XPToNext)
		assert.True(t, snap.SfxEnabled)
		assert.Empty(t, snap.Quests)
	}
}

func TestRestore_BackfillsLifetimeCounters(t *testing.T) {
	raw := []byte(`{"stats":{"level":3,"xp":320,"xpToNext":400,"streak":5}}`)
	snap := Restore(raw, restoreNow)

	assert.Equal(t, 320, snap.Stats.TotalXPEarned, "totalXpEarned backfilled from xp")
	assert.Equal(t, 5, snap.Stats.StreakRecord, "streakRecord backfilled from streak")
}

func TestRestore_WrongTypedStatsFieldsDefault(t *testing.T) {
	raw := []byte(`{"stats":{"level":"five","xp":40,"coins":-10,"streak":true}}`)
	snap := Restore(raw, restoreNow)

	assert.Equal(t, 1, snap.Stats.Level)
	assert.Equal(t, 40, snap.Stats.XP)
	assert.Zero(t, snap.Stats.Coins)
	assert.Zero(t, snap.Stats.Streak)
}

func TestRestore_XPOverflowRollsOver(t *testing.T) {
	raw := []byte(`{"stats":{"level":1,"xp":250,"xpToNext":100}}`)
	snap := Restore(raw, restoreNow)

	assert.Equal(t, 3, snap.Stats.Level)
	assert.Less(t, snap.Stats.XP, snap.Stats.XPToNext)
}

func TestRestore_QuestMigrations(t *testing.T) {
	raw := []byte(`{"quests":[
		{"title":"old quest","difficulty":"brutal","recurring":"monthly","status":"completed",
		 "subTasks":[{"text":"no id here","done":true}]},
		{"title":"daily done","recurring":"daily","status":"completed"},
		{"title":""},
		{"notATitle":true}
	]}`)
	snap := Restore(raw, restoreNow)
	require.Len(t, snap.Quests, 2, "untitled entries dropped")

	old := snap.Quests[0]
	assert.Equal(t, quest.DifficultyEasy, old.Difficulty, "unknown difficulty defaults")
	assert.Equal(t, quest.RecurNone, old.Recurring, "removed recurrence value maps to none")
	assert.Equal(t, old.Difficulty.BaseXP(), old.XP)
	assert.Equal(t, quest.BadgeNone, old.Badge)
	assert.NotEmpty(t, old.ID, "missing quest id regenerated")
	require.Len(t, old.SubTasks, 1)
	assert.NotEmpty(t, old.SubTasks[0].ID, "missing sub-task id regenerated")
	assert.True(t, old.SubTasks[0].Done)

	daily := snap.Quests[1]
	assert.Equal(t, dateutil.DayKey(restoreNow), daily.CompletedAt,
		"completed recurring quest without a date assumed completed today")
}

func TestRestore_ShopEquippedFallback(t *testing.T) {
	raw := []byte(`{"shop":{"ownedFrames":["classic","gilded"],"equippedFrame":"missing",
		"boost":{"multiplier":0.5,"expiresAt":"2024-01-03T10:00:00Z"}}}`)
	snap := Restore(raw, restoreNow)

	assert.Equal(t, shop.DefaultFrame, snap.Shop.EquippedFrame)
	assert.Equal(t, shop.DefaultSkin, snap.Shop.EquippedSkin)
	assert.Nil(t, snap.Shop.Boost, "multiplier <= 1 is not a boost")
}

func TestRestore_FocusSessionGate(t *testing.T) {
	// No questId: dropped.
	snap := Restore([]byte(`{"focus":{"endsAt":"2024-01-03T10:00:00Z"}}`), restoreNow)
	assert.Nil(t, snap.Focus)

	// Target quest absent: dropped.
	snap = Restore([]byte(`{"focus":{"questId":"gone","endsAt":"2024-01-03T10:00:00Z"}}`), restoreNow)
	assert.Nil(t, snap.Focus)

	// Target active: restored.
	raw := []byte(`{
		"quests":[{"id":"q1","title":"deep work","status":"active"}],
		"focus":{"questId":"q1","endsAt":"2024-01-03T10:00:00Z","bonusXp":30}
	}`)
	snap = Restore(raw, restoreNow)
	require.NotNil(t, snap.Focus)
	assert.Equal(t, "q1", snap.Focus.QuestID)

	// Target completed: dropped.
	raw = []byte(`{
		"quests":[{"id":"q1","title":"deep work","status":"completed"}],
		"focus":{"questId":"q1","endsAt":"2024-01-03T10:00:00Z"}
	}`)
	snap = Restore(raw, restoreNow)
	assert.Nil(t, snap.Focus)
}

func TestRestore_AchievementsLegacyMapShape(t *testing.T) {
	snap := Restore([]byte(`{"achievements":{"first_quest":true,"level_5":false}}`), restoreNow)
	assert.Equal(t, []string{"first_quest"}, snap.Achievements)

	snap = Restore([]byte(`{"achievements":["a","a","","b"]}`), restoreNow)
	assert.Equal(t, []string{"a", "b"}, snap.Achievements)
}

func TestRestore_ChallengeStateKeptForBoundaryPass(t *testing.T) {
	raw := []byte(`{"challenges":{"dailyKey":"2024-01-02","weeklyKey":"2024-01-01",
		"dailyNotes":2,"weeklyXp":340,"claimed":{"daily_notes":true,"stale":false}}}`)
	snap := Restore(raw, restoreNow)

	assert.Equal(t, "2024-01-02", snap.Challenges.DailyKey, "stale key preserved for rollover pass")
	assert.Equal(t, 2, snap.Challenges.DailyNotes)
	assert.Equal(t, 340, snap.Challenges.WeeklyXP)
	assert.True(t, snap.Challenges.Claimed["daily_notes"])
	assert.False(t, snap.Challenges.Claimed["stale"])
}

func TestMarshalRoundTrip(t *testing.T) {
	orig := Default(restoreNow)
	q := quest.New("round trip", quest.DifficultyMedium, quest.RecurDaily, restoreNow)
	q.AddSubTask("step one")
	orig.Quests = append(orig.Quests, q)
	orig.Stats.Coins = 75

	raw, err := Marshal(orig)
	require.NoError(t, err)

	back := Restore(raw, restoreNow)
	assert.Equal(t, orig.Stats, back.Stats)
	require.Len(t, back.Quests, 1)
	assert.Equal(t, q.ID, back.Quests[0].ID)
	assert.Equal(t, q.SubTasks[0].ID, back.Quests[0].SubTasks[0].ID)
}
