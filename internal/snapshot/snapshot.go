// Package snapshot defines the complete serializable state of one
// profile and the validating restore that rebuilds it from persisted
// or remote data of any age.
package snapshot

import (
	"time"

	"questlog/internal/challenge"
	"questlog/internal/focus"
	"questlog/internal/note"
	"questlog/internal/notify"
	"questlog/internal/progression"
	"questlog/internal/quest"
	"questlog/internal/shop"
)

// Version tags snapshots written by this build. Restore accepts any
// older shape and migrates it field by field.
const Version = "3"

type Snapshot struct {
	Version       string                `json:"version"`
	Quests        []quest.Quest         `json:"quests"`
	Notes         []note.Note           `json:"notes"`
	Stats         progression.UserStats `json:"stats"`
	Achievements  []string              `json:"achievements,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
	Shop          shop.State            `json:"shop"`
	Challenges    challenge.State       `json:"challenges"`
	Focus         *focus.Session        `json:"focus,omitempty"`
	SfxEnabled    bool                  `json:"sfxEnabled"`
	SavedAt       time.Time             `json:"savedAt"`
}

// Default is the state of a brand-new profile at the given instant.
func Default(now time.Time) Snapshot {
	today, weekStart := windowKeys(now)
	return Snapshot{
		Version:    Version,
		Quests:     []quest.Quest{},
		Notes:      []note.Note{},
		Stats:      progression.NewStats(),
		Shop:       shop.NewState(),
		Challenges: challenge.NewState(today, weekStart),
		SfxEnabled: true,
		SavedAt:    now,
	}
}
