// Package note holds the lightweight journal entries whose creation
// feeds the daily and weekly challenge counters.
package note

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(text string, now time.Time) Note {
	return Note{ID: uuid.NewString(), Text: text, CreatedAt: now}
}
