package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededState() State {
	s := NewState("2024-01-03", "2024-01-01")
	s = NoteLogged(s)
	s = NoteLogged(s)
	s = FocusAwarded(s)
	s = XPEarned(s, 120)
	s = Claim(s, IDDailyFocus)
	s = Claim(s, IDWeeklyXP)
	return s
}

func TestRollWindow_SameKeysIsNoop(t *testing.T) {
	s := seededState()
	got := RollWindow(s, "2024-01-03", "2024-01-01")

	assert.Equal(t, 2, got.DailyNotes)
	assert.Equal(t, 1, got.DailyFocus)
	assert.Equal(t, 2, got.WeeklyNotes)
	assert.Equal(t, 120, got.WeeklyXP)
	assert.True(t, got.Claimed[IDDailyFocus])
	assert.True(t, got.Claimed[IDWeeklyXP])
}

func TestRollWindow_DailyOnly(t *testing.T) {
	s := seededState()
	got := RollWindow(s, "2024-01-04", "2024-01-01")

	assert.Equal(t, "2024-01-04", got.DailyKey)
	assert.Zero(t, got.DailyNotes)
	assert.Zero(t, got.DailyFocus)
	assert.False(t, got.Claimed[IDDailyFocus], "daily claims pruned")

	// Weekly window untouched.
	assert.Equal(t, 2, got.WeeklyNotes)
	assert.Equal(t, 120, got.WeeklyXP)
	assert.True(t, got.Claimed[IDWeeklyXP])

	// Input state untouched (fresh claimed map).
	assert.True(t, s.Claimed[IDDailyFocus])
}

func TestRollWindow_BothFireInOneCall(t *testing.T) {
	s := seededState()
	got := RollWindow(s, "2024-01-08", "2024-01-08")

	assert.Zero(t, got.DailyNotes)
	assert.Zero(t, got.WeeklyNotes)
	assert.Zero(t, got.WeeklyXP)
	assert.Empty(t, got.Claimed)
}

func TestHooks_CreditCurrentWindow(t *testing.T) {
	s := NewState("2024-01-03", "2024-01-01")
	s = NoteLogged(s)
	assert.Equal(t, 1, s.DailyNotes)
	assert.Equal(t, 1, s.WeeklyNotes)

	s = XPEarned(s, -5)
	assert.Zero(t, s.WeeklyXP, "negative xp amounts are ignored")
}

func TestProgressAgainstDefinitions(t *testing.T) {
	defs := Defaults()
	require.Len(t, defs, 4)

	s := seededState()
	for _, def := range defs {
		switch def.ID {
		case IDDailyNotes:
			assert.Equal(t, 2, Progress(s, def))
		case IDDailyFocus:
			assert.Equal(t, 1, Progress(s, def))
		case IDWeeklyNotes:
			assert.Equal(t, 2, Progress(s, def))
		case IDWeeklyXP:
			assert.Equal(t, 120, Progress(s, def))
		}
	}
}

func TestDefinitionIDSetsAreDisjoint(t *testing.T) {
	seen := map[string]Cadence{}
	for _, def := range Defaults() {
		_, dup := seen[def.ID]
		require.False(t, dup, "duplicate challenge id %s", def.ID)
		seen[def.ID] = def.Cadence
	}
	assert.Equal(t, CadenceDaily, seen[IDDailyNotes])
	assert.Equal(t, CadenceWeekly, seen[IDWeeklyXP])
}
