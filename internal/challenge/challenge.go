// Package challenge tracks rolling daily and weekly challenge windows:
// counters accumulated inside the current window and the set of
// challenge ids already claimed for it.
package challenge

import "questlog/internal/dateutil"

type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Definition describes one challenge. The id sets are fixed and
// disjoint across cadences; clients store ids, so keep them stable.
type Definition struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Cadence     Cadence `json:"cadence" yaml:"cadence"`
	Target      int     `json:"target" yaml:"target"`
	RewardCoins int     `json:"rewardCoins" yaml:"reward_coins"`
}

const (
	IDDailyNotes  = "daily_notes"
	IDDailyFocus  = "daily_focus"
	IDWeeklyNotes = "weekly_notes"
	IDWeeklyXP    = "weekly_xp"
)

// Defaults is the built-in catalog, overridable from the balance
// config.
func Defaults() []Definition {
	return []Definition{
		{ID: IDDailyNotes, Title: "Scribe", Cadence: CadenceDaily, Target: 3, RewardCoins: 15},
		{ID: IDDailyFocus, Title: "Deep Work", Cadence: CadenceDaily, Target: 1, RewardCoins: 20},
		{ID: IDWeeklyNotes, Title: "Chronicler", Cadence: CadenceWeekly, Target: 10, RewardCoins: 40},
		{ID: IDWeeklyXP, Title: "Grinder", Cadence: CadenceWeekly, Target: 500, RewardCoins: 60},
	}
}

// State is the persisted window state. Counters and claims are valid
// only while their key matches the current day / week start.
type State struct {
	DailyKey    string          `json:"dailyKey,omitempty"`
	WeeklyKey   string          `json:"weeklyKey,omitempty"`
	DailyNotes  int             `json:"dailyNotes"`
	DailyFocus  int             `json:"dailyFocus"`
	WeeklyNotes int             `json:"weeklyNotes"`
	WeeklyXP    int             `json:"weeklyXp"`
	Claimed     map[string]bool `json:"claimed,omitempty"`
}

func NewState(today, weekStart string) State {
	return State{DailyKey: today, WeeklyKey: weekStart, Claimed: map[string]bool{}}
}

func cadenceOf(id string) Cadence {
	switch id {
	case IDDailyNotes, IDDailyFocus:
		return CadenceDaily
	default:
		return CadenceWeekly
	}
}

// RollWindow resets the daily and/or weekly window when its key no
// longer matches. The two checks are independent; both can fire in one
// call. Claims belonging to a rolled window are pruned, the rest kept.
func RollWindow(s State, today, weekStart string) State {
	out := s
	out.Claimed = make(map[string]bool, len(s.Claimed))
	for id, v := range s.Claimed {
		out.Claimed[id] = v
	}

	if out.DailyKey != today {
		out.DailyKey = today
		out.DailyNotes = 0
		out.DailyFocus = 0
		for id := range out.Claimed {
			if cadenceOf(id) == CadenceDaily {
				delete(out.Claimed, id)
			}
		}
	}
	if out.WeeklyKey != weekStart {
		out.WeeklyKey = weekStart
		out.WeeklyNotes = 0
		out.WeeklyXP = 0
		for id := range out.Claimed {
			if cadenceOf(id) == CadenceWeekly {
				delete(out.Claimed, id)
			}
		}
	}
	return out
}

// Event hooks. Callers must roll the window first when a boundary is
// also due, so stale windows are never credited.

func NoteLogged(s State) State {
	s.DailyNotes++
	s.WeeklyNotes++
	return s
}

func FocusAwarded(s State) State {
	s.DailyFocus++
	return s
}

func XPEarned(s State, amount int) State {
	if amount > 0 {
		s.WeeklyXP += amount
	}
	return s
}

// Progress returns the current counter for a definition.
func Progress(s State, def Definition) int {
	switch def.ID {
	case IDDailyNotes:
		return s.DailyNotes
	case IDDailyFocus:
		return s.DailyFocus
	case IDWeeklyNotes:
		return s.WeeklyNotes
	case IDWeeklyXP:
		return s.WeeklyXP
	default:
		return 0
	}
}

// Claim marks the id claimed for the current window. Validating that
// the target is met (and not already claimed) is the caller's job.
func Claim(s State, id string) State {
	out := s
	out.Claimed = make(map[string]bool, len(s.Claimed)+1)
	for k, v := range s.Claimed {
		out.Claimed[k] = v
	}
	out.Claimed[id] = true
	return out
}

// CurrentFor convenience: the window keys for an instant.
func CurrentFor(today string) (dailyKey, weeklyKey string) {
	return today, dateutil.WeekStartOfDay(today)
}
