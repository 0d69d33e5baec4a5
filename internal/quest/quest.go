package quest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusCompleted
}

type Recurrence string

const (
	RecurNone   Recurrence = "none"
	RecurDaily  Recurrence = "daily"
	RecurWeekly Recurrence = "weekly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly:
		return true
	default:
		return false
	}
}

func ParseRecurrence(input string) (Recurrence, error) {
	r := Recurrence(strings.TrimSpace(strings.ToLower(input)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid recurrence: %q", input)
	}
	return r, nil
}

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyHard      Difficulty = "hard"
	DifficultyLegendary Difficulty = "legendary"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyLegendary:
		return true
	default:
		return false
	}
}

func ParseDifficulty(input string) (Difficulty, error) {
	d := Difficulty(strings.TrimSpace(strings.ToLower(input)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid difficulty: %q", input)
	}
	return d, nil
}

// BaseXP is the reward assigned to a quest of this difficulty when the
// caller does not override it from the balance config.
func (d Difficulty) BaseXP() int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 50
	case DifficultyHard:
		return 100
	case DifficultyLegendary:
		return 200
	default:
		return 20
	}
}

// BadgeNone marks a quest without a title badge.
const BadgeNone = "none"

type SubTask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Quest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	XP          int        `json:"xp"`
	DueDate     string     `json:"dueDate,omitempty"`
	Status      Status     `json:"status"`
	Category    string     `json:"category,omitempty"`
	Recurring   Recurrence `json:"recurring"`
	CompletedAt string     `json:"completedAt,omitempty"`
	SubTasks    []SubTask  `json:"subTasks,omitempty"`
	Badge       string     `json:"badge"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func New(title string, difficulty Difficulty, recurring Recurrence, now time.Time) Quest {
	if !difficulty.IsValid() {
		difficulty = DifficultyEasy
	}
	if !recurring.IsValid() {
		recurring = RecurNone
	}
	return Quest{
		ID:         uuid.NewString(),
		Title:      title,
		Difficulty: difficulty,
		XP:         difficulty.BaseXP(),
		Status:     StatusActive,
		Recurring:  recurring,
		Badge:      BadgeNone,
		CreatedAt:  now,
	}
}

func (q *Quest) AddSubTask(text string) {
	q.SubTasks = append(q.SubTasks, SubTask{ID: uuid.NewString(), Text: text})
}

// SubTasksDone reports whether every sub-task is checked. A quest with
// no sub-tasks is trivially done.
func (q Quest) SubTasksDone() bool {
	for _, st := range q.SubTasks {
		if !st.Done {
			return false
		}
	}
	return true
}

// CanComplete is the completion precondition: the quest must still be
// active and its checklist finished.
func (q Quest) CanComplete() bool {
	return q.Status == StatusActive && q.SubTasksDone()
}

// MarkCompleted transitions the quest to completed on the given day.
// Callers must have checked CanComplete first.
func (q *Quest) MarkCompleted(dayKey string) {
	q.Status = StatusCompleted
	q.CompletedAt = dayKey
}

// ToggleSubTask flips the done flag of the sub-task with the given id
// and reports whether it was found. Completed quests are immutable.
func (q *Quest) ToggleSubTask(subID string) bool {
	if q.Status == StatusCompleted {
		return false
	}
	for i := range q.SubTasks {
		if q.SubTasks[i].ID == subID {
			q.SubTasks[i].Done = !q.SubTasks[i].Done
			return true
		}
	}
	return false
}

// Clone returns a deep copy so reconciliation passes can produce fresh
// lists without sharing sub-task slices.
func (q Quest) Clone() Quest {
	out := q
	if q.SubTasks != nil {
		out.SubTasks = make([]SubTask, len(q.SubTasks))
		copy(out.SubTasks, q.SubTasks)
	}
	return out
}
