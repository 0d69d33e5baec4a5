package progression

import "questlog/internal/dateutil"

type StreakResult struct {
	Extended  bool
	NewStreak int
}

// ApplyStreak folds a completion on the given day into the streak.
// Multiple completions on the same day count once; a completion the
// day after the last active day extends the streak; any longer gap
// restarts it at 1. The streak record only ever grows.
func ApplyStreak(stats UserStats, dayKey string) (UserStats, StreakResult) {
	if stats.LastActiveDate == dayKey {
		return stats, StreakResult{NewStreak: stats.Streak}
	}

	if stats.LastActiveDate != "" && stats.LastActiveDate == dateutil.Yesterday(dayKey) {
		stats.Streak++
	} else {
		stats.Streak = 1
	}
	stats.LastActiveDate = dayKey
	if stats.Streak > stats.StreakRecord {
		stats.StreakRecord = stats.Streak
	}
	return stats, StreakResult{Extended: true, NewStreak: stats.Streak}
}

// CheckStreakBreak is the passive decay check run at startup and at
// the midnight boundary, not on completion. If the last active day is
// neither today nor yesterday the streak is gone; the caller emits the
// "streak broken" notification when true is returned.
func CheckStreakBreak(stats UserStats, today string) (UserStats, bool) {
	if stats.Streak <= 0 {
		return stats, false
	}
	if stats.LastActiveDate == today || stats.LastActiveDate == dateutil.Yesterday(today) {
		return stats, false
	}
	stats.Streak = 0
	return stats, true
}
