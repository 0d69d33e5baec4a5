package progression

import "math"

type XPResult struct {
	LeveledUp bool
	LevelsGained int
	NewLevel  int
}

// ApplyXP adds a non-negative XP delta to the stats, rolling over as
// many levels as the delta covers. The returned result reports whether
// celebratory side effects (notification, sfx) are due.
func ApplyXP(stats UserStats, delta int) (UserStats, XPResult) {
	if delta < 0 {
		// Contract violation by the caller; treat as no-op rather
		// than corrupting monotonic counters.
		return stats, XPResult{NewLevel: stats.Level}
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
	if stats.XPToNext <= 0 {
		stats.XPToNext = InitialXPToNext
	}

	stats.XP += delta
	stats.TotalXPEarned += delta

	levels := 0
	for stats.XP >= stats.XPToNext {
		stats.XP -= stats.XPToNext
		stats.Level++
		stats.XPToNext = int(math.Round(float64(stats.XPToNext) * LevelGrowth))
		levels++
	}

	return stats, XPResult{
		LeveledUp:    levels > 0,
		LevelsGained: levels,
		NewLevel:     stats.Level,
	}
}
