package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepo_RecordAndQuery(t *testing.T) {
	repo, err := NewMemoryRepo()
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Record("u1", EventQuestCompleted, Metadata{"xp": 50, "levelUp": true}))
	require.NoError(t, repo.Record("u1", EventNoteAdded, Metadata{"noteId": "n1"}))
	require.NoError(t, repo.Record("u2", EventNoteAdded, nil))

	events, err := repo.Events("u1", time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 2, "events are scoped per user")
	assert.Equal(t, EventQuestCompleted, events[0].Type)

	filtered, err := repo.Events("u1", time.Time{}, []EventType{EventNoteAdded})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
}

func TestCalculateStats(t *testing.T) {
	repo, err := NewMemoryRepo()
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Record("u1", EventQuestCompleted, Metadata{"xp": 50, "levelUp": true}))
	require.NoError(t, repo.Record("u1", EventQuestCompleted, Metadata{"xp": 100}))
	require.NoError(t, repo.Record("u1", EventFocusAwarded, Metadata{"bonusXp": 30}))
	require.NoError(t, repo.Record("u1", EventItemPurchased, Metadata{"cost": 120}))
	require.NoError(t, repo.Record("u1", EventNoteAdded, Metadata{}))

	events, err := repo.Events("u1", time.Time{}, nil)
	require.NoError(t, err)

	stats := CalculateStats(events, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, stats.QuestCompletions)
	assert.Equal(t, 180, stats.XPEarned)
	assert.Equal(t, 1, stats.LevelUps)
	assert.Equal(t, 120, stats.CoinsSpent)
	assert.Equal(t, 1, stats.NotesAdded)
	assert.Equal(t, 1, stats.FocusAwards)
	assert.Equal(t, "2024-01-01", stats.Period)
}
