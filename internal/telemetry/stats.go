package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"eventCounts"`
	QuestCompletions int               `json:"questCompletions"`
	NotesAdded       int               `json:"notesAdded"`
	FocusAwards      int               `json:"focusAwards"`
	XPEarned         int               `json:"xpEarned"`
	CoinsSpent       int               `json:"coinsSpent"`
	LevelUps         int               `json:"levelUps"`
}

// CalculateStats folds a user's event history into aggregate counters.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var meta Metadata
		if err := json.Unmarshal([]byte(event.Metadata), &meta); err != nil {
			continue
		}

		switch event.Type {
		case EventQuestCompleted:
			stats.QuestCompletions++
			stats.XPEarned += metaInt(meta, "xp")
			if up, ok := meta["levelUp"].(bool); ok && up {
				stats.LevelUps++
			}
		case EventNoteAdded:
			stats.NotesAdded++
		case EventFocusAwarded:
			stats.FocusAwards++
			stats.XPEarned += metaInt(meta, "bonusXp")
		case EventItemPurchased:
			stats.CoinsSpent += metaInt(meta, "cost")
		}
	}
	return stats
}

func metaInt(meta Metadata, key string) int {
	if f, ok := meta[key].(float64); ok {
		return int(f)
	}
	return 0
}
