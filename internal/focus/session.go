// Package focus models the single timed focus session a profile may
// run against one of its active quests.
package focus

import "time"

// Session state machine: none -> running (Start, replacing any prior
// session) -> none (explicit stop, target quest gone or completed, or
// expiry). Expiry awards the bonus exactly once, guarded by Awarded.
type Session struct {
	QuestID    string    `json:"questId"`
	StartedAt  time.Time `json:"startedAt"`
	EndsAt     time.Time `json:"endsAt"`
	DurationMs int64     `json:"durationMs"`
	BonusXP    int       `json:"bonusXp"`
	Awarded    bool      `json:"awarded"`
}

// DefaultBonusXP is granted for seeing a session through when the
// caller does not override it from the balance config.
const DefaultBonusXP = 30

func Start(questID string, duration time.Duration, bonusXP int, now time.Time) *Session {
	if bonusXP <= 0 {
		bonusXP = DefaultBonusXP
	}
	return &Session{
		QuestID:    questID,
		StartedAt:  now,
		EndsAt:     now.Add(duration),
		DurationMs: duration.Milliseconds(),
		BonusXP:    bonusXP,
	}
}

// Expired reports whether the session has run its full duration.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !now.Before(s.EndsAt)
}

// AwardDue reports whether the completion bonus should be granted now.
// It is true at most once in a session's life; callers mark the
// session awarded (and then drop it) when acting on it.
func (s *Session) AwardDue(now time.Time) bool {
	return s.Expired(now) && !s.Awarded
}

// Valid is the restore gate: a persisted session without a target
// quest or end time is treated as no session at all.
func (s *Session) Valid() bool {
	return s != nil && s.QuestID != "" && !s.EndsAt.IsZero()
}
