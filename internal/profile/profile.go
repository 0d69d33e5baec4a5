// Package profile is the orchestration core: it owns one user's full
// progression state and applies every state transition as a pure
// event reduction, sequencing side effects (persistence, remote
// mirroring, notifications, telemetry) after the reduction.
package profile

import (
	"sort"

	"questlog/internal/challenge"
	"questlog/internal/focus"
	"questlog/internal/note"
	"questlog/internal/notify"
	"questlog/internal/progression"
	"questlog/internal/quest"
	"questlog/internal/shop"
	"questlog/internal/snapshot"
)

// Profile is the in-memory aggregate rebuilt from a snapshot at
// hydration and serialized back on every change.
type Profile struct {
	Quests        []quest.Quest
	Notes         []note.Note
	Stats         progression.UserStats
	Achievements  map[string]bool
	Notifications []notify.Notification
	Shop          shop.State
	Challenges    challenge.State
	Focus         *focus.Session
	SfxEnabled    bool
}

func FromSnapshot(s snapshot.Snapshot) Profile {
	unlocked := make(map[string]bool, len(s.Achievements))
	for _, id := range s.Achievements {
		unlocked[id] = true
	}
	return Profile{
		Quests:        s.Quests,
		Notes:         s.Notes,
		Stats:         s.Stats,
		Achievements:  unlocked,
		Notifications: s.Notifications,
		Shop:          s.Shop,
		Challenges:    s.Challenges,
		Focus:         s.Focus,
		SfxEnabled:    s.SfxEnabled,
	}
}

func (p Profile) ToSnapshot() snapshot.Snapshot {
	ids := make([]string, 0, len(p.Achievements))
	for id := range p.Achievements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return snapshot.Snapshot{
		Version:       snapshot.Version,
		Quests:        p.Quests,
		Notes:         p.Notes,
		Stats:         p.Stats,
		Achievements:  ids,
		Notifications: p.Notifications,
		Shop:          p.Shop,
		Challenges:    p.Challenges,
		Focus:         p.Focus,
		SfxEnabled:    p.SfxEnabled,
	}
}

func (p Profile) findQuest(id string) (int, bool) {
	for i := range p.Quests {
		if p.Quests[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
