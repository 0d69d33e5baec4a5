package quest

import (
	"time"

	"questlog/internal/dateutil"
)

// ResetIfDue reactivates a completed recurring quest whose period has
// rolled over. today and weekStart are day keys for the reconciliation
// instant. Non-recurring, still-active, and never-observed-completed
// quests pass through untouched.
func ResetIfDue(q Quest, today, weekStart string) Quest {
	if q.Recurring == RecurNone || q.Status != StatusCompleted {
		return q
	}
	if q.CompletedAt == "" {
		// Not yet observed completing; the snapshot migration stamps
		// these with a day so they do not reactivate forever.
		return q
	}

	switch q.Recurring {
	case RecurDaily:
		if q.CompletedAt != today {
			return reactivate(q, today)
		}
	case RecurWeekly:
		if dateutil.WeekStartOfDay(q.CompletedAt) != weekStart {
			ws, ok := dateutil.ParseDay(weekStart)
			if !ok {
				return q
			}
			return reactivate(q, dateutil.WeekEndKey(ws))
		}
	}
	return q
}

func reactivate(q Quest, dueDate string) Quest {
	out := q.Clone()
	out.Status = StatusActive
	out.CompletedAt = ""
	out.DueDate = dueDate
	for i := range out.SubTasks {
		out.SubTasks[i].Done = false
	}
	return out
}

// Reconcile maps ResetIfDue over the full quest list, producing a new
// slice. It returns the ids of the quests that were reactivated.
func Reconcile(quests []Quest, now time.Time) ([]Quest, []string) {
	today := dateutil.DayKey(now)
	weekStart := dateutil.WeekStartKey(now)

	out := make([]Quest, len(quests))
	var reactivated []string
	for i, q := range quests {
		next := ResetIfDue(q, today, weekStart)
		if q.Status == StatusCompleted && next.Status == StatusActive {
			reactivated = append(reactivated, next.ID)
		}
		out[i] = next
	}
	return out, reactivated
}
