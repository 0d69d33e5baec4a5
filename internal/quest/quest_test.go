package quest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHelpers(t *testing.T) {
	d, err := ParseDifficulty("  Legendary ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyLegendary, d)

	_, err = ParseDifficulty("mythic")
	assert.Error(t, err)

	r, err := ParseRecurrence("WEEKLY")
	require.NoError(t, err)
	assert.Equal(t, RecurWeekly, r)

	_, err = ParseRecurrence("monthly")
	assert.Error(t, err)
}

func TestNew_DefaultsAndBaseXP(t *testing.T) {
	q := New("slay inbox", DifficultyHard, RecurDaily, time.Now())
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, StatusActive, q.Status)
	assert.Equal(t, 100, q.XP)
	assert.Equal(t, BadgeNone, q.Badge)

	// Invalid enum values fall back rather than propagating.
	q = New("odd", Difficulty("???"), Recurrence("???"), time.Now())
	assert.Equal(t, DifficultyEasy, q.Difficulty)
	assert.Equal(t, RecurNone, q.Recurring)
}

func TestCanComplete_BlockedByOpenSubTasks(t *testing.T) {
	q := New("ship release", DifficultyMedium, RecurNone, time.Now())
	q.AddSubTask("write changelog")
	q.AddSubTask("tag version")
	require.Len(t, q.SubTasks, 2)

	assert.False(t, q.CanComplete())

	assert.True(t, q.ToggleSubTask(q.SubTasks[0].ID))
	assert.False(t, q.CanComplete())

	assert.True(t, q.ToggleSubTask(q.SubTasks[1].ID))
	assert.True(t, q.CanComplete())

	q.MarkCompleted("2024-01-03")
	assert.False(t, q.CanComplete())
	assert.False(t, q.ToggleSubTask(q.SubTasks[0].ID), "completed quests are immutable")
}

func TestClone_IndependentSubTasks(t *testing.T) {
	q := New("clone me", DifficultyEasy, RecurNone, time.Now())
	q.AddSubTask("a")

	c := q.Clone()
	c.SubTasks[0].Done = true
	assert.False(t, q.SubTasks[0].Done)
}
