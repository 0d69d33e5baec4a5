package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	s := Start("q1", 25*time.Minute, 0, now)

	require.NotNil(t, s)
	assert.Equal(t, "q1", s.QuestID)
	assert.Equal(t, now.Add(25*time.Minute), s.EndsAt)
	assert.EqualValues(t, 25*60*1000, s.DurationMs)
	assert.Equal(t, DefaultBonusXP, s.BonusXP)
	assert.False(t, s.Awarded)
}

func TestAwardDue_ExactlyOnce(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	s := Start("q1", 25*time.Minute, 40, now)

	assert.False(t, s.AwardDue(now.Add(24*time.Minute)))
	assert.True(t, s.AwardDue(now.Add(25*time.Minute)), "award due at the end instant")

	s.Awarded = true
	assert.False(t, s.AwardDue(now.Add(time.Hour)))
}

func TestValid(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Valid())
	assert.False(t, (&Session{QuestID: "q1"}).Valid())
	assert.False(t, (&Session{EndsAt: time.Now()}).Valid())
	assert.True(t, (&Session{QuestID: "q1", EndsAt: time.Now()}).Valid())
}
