// Package progression owns the user's durable progression counters:
// level, XP, coins and the daily streak. All updates are pure
// stats-in, stats-out functions so they stay trivially testable.
package progression

// InitialXPToNext is the level-1 threshold; each level-up multiplies
// the threshold by LevelGrowth, rounded to the nearest integer.
const (
	InitialXPToNext = 100
	LevelGrowth     = 1.2
)

type UserStats struct {
	Level                     int    `json:"level"`
	XP                        int    `json:"xp"`
	XPToNext                  int    `json:"xpToNext"`
	TotalXPEarned             int    `json:"totalXpEarned"`
	Coins                     int    `json:"coins"`
	Streak                    int    `json:"streak"`
	StreakRecord              int    `json:"streakRecord"`
	LastActiveDate            string `json:"lastActiveDate,omitempty"`
	LastDailyChallengeNotified string `json:"lastDailyChallengeNotified,omitempty"`
	QuestsCompleted           int    `json:"questsCompleted"`
}

func NewStats() UserStats {
	return UserStats{
		Level:    1,
		XPToNext: InitialXPToNext,
	}
}
