// Package notify holds the semantic event records the core emits for
// the presentation layer. The sink only renders them.
package notify

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindQuestCompleted   Kind = "quest_completed"
	KindLevelUp          Kind = "level_up"
	KindStreakMilestone  Kind = "streak_milestone"
	KindStreakBroken     Kind = "streak_broken"
	KindAchievement      Kind = "achievement_unlocked"
	KindChallengeClaimed Kind = "challenge_claimed"
	KindDailyAvailable   Kind = "daily_challenges_available"
	KindFocusAwarded     Kind = "focus_awarded"
	KindReminder         Kind = "reminder"
	KindInfo             Kind = "info"
)

// MaxKept caps the retained list to the most recent records.
const MaxKept = 50

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

func New(kind Kind, message string, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
	}
}

// Push prepends a record, newest first, trimming past MaxKept.
func Push(list []Notification, n Notification) []Notification {
	out := make([]Notification, 0, len(list)+1)
	out = append(out, n)
	out = append(out, list...)
	if len(out) > MaxKept {
		out = out[:MaxKept]
	}
	return out
}

// Merge folds inbound records (e.g. remote reminders) into the list,
// deduplicated by id, newest first, capped to MaxKept.
func Merge(list, inbound []Notification) []Notification {
	seen := make(map[string]bool, len(list)+len(inbound))
	merged := make([]Notification, 0, len(list)+len(inbound))
	for _, n := range append(append([]Notification{}, inbound...), list...) {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		merged = append(merged, n)
	}
	sortByCreatedDesc(merged)
	if len(merged) > MaxKept {
		merged = merged[:MaxKept]
	}
	return merged
}

func sortByCreatedDesc(list []Notification) {
	// Insertion sort keeps stability; lists are capped at 50 anyway.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].CreatedAt.After(list[j-1].CreatedAt); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}
