// Package achievement evaluates the fixed achievement catalog against
// the profile's stats after each state change.
package achievement

import "questlog/internal/progression"

type Achievement struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Check inspects stats only; achievements are derived state.
	Check func(progression.UserStats) bool `json:"-"`
}

// Catalog ids are stored in snapshots; keep them stable.
func Catalog() []Achievement {
	return []Achievement{
		{ID: "first_quest", Title: "First Steps", Check: func(s progression.UserStats) bool {
			return s.QuestsCompleted >= 1
		}},
		{ID: "ten_quests", Title: "Journeyman", Check: func(s progression.UserStats) bool {
			return s.QuestsCompleted >= 10
		}},
		{ID: "fifty_quests", Title: "Questmaster", Check: func(s progression.UserStats) bool {
			return s.QuestsCompleted >= 50
		}},
		{ID: "streak_7", Title: "One Week Strong", Check: func(s progression.UserStats) bool {
			return s.StreakRecord >= 7
		}},
		{ID: "streak_30", Title: "Habit Forged", Check: func(s progression.UserStats) bool {
			return s.StreakRecord >= 30
		}},
		{ID: "level_5", Title: "Adept", Check: func(s progression.UserStats) bool {
			return s.Level >= 5
		}},
		{ID: "level_10", Title: "Veteran", Check: func(s progression.UserStats) bool {
			return s.Level >= 10
		}},
		{ID: "rich_500", Title: "Full Purse", Check: func(s progression.UserStats) bool {
			return s.Coins >= 500
		}},
	}
}

// Evaluate returns the ids newly unlocked beyond the given set and the
// updated set. The unlocked set is monotonic; nothing re-locks.
func Evaluate(stats progression.UserStats, unlocked map[string]bool) (map[string]bool, []Achievement) {
	out := make(map[string]bool, len(unlocked))
	for id := range unlocked {
		out[id] = true
	}

	var fresh []Achievement
	for _, a := range Catalog() {
		if out[a.ID] || !a.Check(stats) {
			continue
		}
		out[a.ID] = true
		fresh = append(fresh, a)
	}
	return out, fresh
}
