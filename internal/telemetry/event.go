package telemetry

import "time"

type EventType string

const (
	EventQuestCreated     EventType = "quest_created"
	EventQuestCompleted   EventType = "quest_completed"
	EventNoteAdded        EventType = "note_added"
	EventFocusStarted     EventType = "focus_started"
	EventFocusAwarded     EventType = "focus_awarded"
	EventChallengeClaimed EventType = "challenge_claimed"
	EventItemPurchased    EventType = "item_purchased"
	EventBoundaryCrossed  EventType = "boundary_crossed"
)

type Event struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type Metadata map[string]interface{}

// Recorder is what the orchestrator writes events through. Recording
// is best-effort; failures are logged, never surfaced.
type Recorder interface {
	Record(userID string, eventType EventType, metadata Metadata) error
}

// NopRecorder discards events (tests, telemetry disabled).
type NopRecorder struct{}

func (NopRecorder) Record(string, EventType, Metadata) error { return nil }
