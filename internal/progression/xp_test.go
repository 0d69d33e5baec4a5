package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyXP_NoLevelUp(t *testing.T) {
	stats := NewStats()
	stats, res := ApplyXP(stats, 40)

	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 40, stats.XP)
	assert.Equal(t, 100, stats.XPToNext)
	assert.Equal(t, 40, stats.TotalXPEarned)
}

func TestApplyXP_SingleLevelUpGrowsThreshold(t *testing.T) {
	stats := NewStats()
	stats, res := ApplyXP(stats, 130)

	require.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.LevelsGained)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 30, stats.XP)
	assert.Equal(t, 120, stats.XPToNext) // round(100 * 1.2)
}

func TestApplyXP_MultiLevelJumpInOneCall(t *testing.T) {
	stats := NewStats()
	// 100 + 120 = 220 consumed by two level-ups, 30 left over.
	stats, res := ApplyXP(stats, 250)

	assert.Equal(t, 2, res.LevelsGained)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 30, stats.XP)
	assert.Equal(t, 144, stats.XPToNext) // round(120 * 1.2)
	assert.Equal(t, 250, stats.TotalXPEarned)
}

// The worked example from the balance sheet: level 5 at 480/500, a
// boosted 100 XP completion lands at level 6, 80/600.
func TestApplyXP_BoostedCompletionExample(t *testing.T) {
	stats := UserStats{Level: 5, XP: 480, XPToNext: 500}
	stats, res := ApplyXP(stats, 100)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 6, stats.Level)
	assert.Equal(t, 80, stats.XP)
	assert.Equal(t, 600, stats.XPToNext)
}

func TestApplyXP_ManySmallDeltasMatchOneBigDelta(t *testing.T) {
	a := NewStats()
	for i := 0; i < 137; i++ {
		a, _ = ApplyXP(a, 7)
	}

	b := NewStats()
	b, _ = ApplyXP(b, 137*7)

	assert.Equal(t, b, a)
}

func TestApplyXP_InvariantHoldsAcrossDeltas(t *testing.T) {
	stats := NewStats()
	prevLevel := stats.Level
	for _, delta := range []int{0, 1, 99, 100, 500, 3, 9999} {
		var res XPResult
		stats, res = ApplyXP(stats, delta)
		assert.GreaterOrEqual(t, stats.XP, 0)
		assert.Less(t, stats.XP, stats.XPToNext)
		assert.GreaterOrEqual(t, res.NewLevel, prevLevel)
		prevLevel = res.NewLevel
	}
}

func TestApplyXP_NegativeDeltaIsIgnored(t *testing.T) {
	stats := NewStats()
	stats, res := ApplyXP(stats, -50)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 0, stats.XP)
	assert.Equal(t, 0, stats.TotalXPEarned)
}

func TestApplyXP_RepairsZeroedThreshold(t *testing.T) {
	stats := UserStats{Level: 0, XP: 0, XPToNext: 0}
	stats, _ = ApplyXP(stats, 10)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, InitialXPToNext, stats.XPToNext)
}
