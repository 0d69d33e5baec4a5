package snapshot

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"questlog/internal/challenge"
	"questlog/internal/dateutil"
	"questlog/internal/focus"
	"questlog/internal/note"
	"questlog/internal/notify"
	"questlog/internal/progression"
	"questlog/internal/quest"
	"questlog/internal/shop"
)

// Restore rebuilds a validated snapshot from raw persisted bytes. It
// never fails: every missing, mistyped or unrecognized field reverts
// to its default, and older schema shapes are migrated field by field.
func Restore(raw []byte, now time.Time) Snapshot {
	out := Default(now)
	if len(raw) == 0 {
		return out
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return out
	}

	today := dateutil.DayKey(now)

	out.Stats = restoreStats(top["stats"])
	out.Quests = restoreQuests(top["quests"], today)
	out.Notes = restoreNotes(top["notes"], now)
	out.Achievements = restoreAchievements(top["achievements"])
	out.Notifications = restoreNotifications(top["notifications"], now)
	out.Shop = restoreShop(top["shop"])
	out.Challenges = restoreChallenges(top["challenges"], now)
	out.Focus = restoreFocus(top["focus"], out.Quests)
	if b, ok := asBool(top["sfxEnabled"]); ok {
		out.SfxEnabled = b
	}
	if t, ok := asTime(top["savedAt"]); ok {
		out.SavedAt = t
	}
	return out
}

// Marshal serializes a snapshot for the store and the remote mirror.
func Marshal(s Snapshot) ([]byte, error) {
	s.Version = Version
	return json.MarshalIndent(s, "", "  ")
}

func restoreStats(raw json.RawMessage) progression.UserStats {
	stats := progression.NewStats()
	fields, ok := asObject(raw)
	if !ok {
		return stats
	}

	if v, ok := asInt(fields["level"]); ok && v >= 1 {
		stats.Level = v
	}
	if v, ok := asInt(fields["xp"]); ok && v >= 0 {
		stats.XP = v
	}
	if v, ok := asInt(fields["xpToNext"]); ok && v > 0 {
		stats.XPToNext = v
	}
	if v, ok := asInt(fields["totalXpEarned"]); ok && v >= 0 {
		stats.TotalXPEarned = v
	} else {
		// Pre-v2 snapshots had no lifetime counter; the in-level xp
		// is the best available lower bound.
		stats.TotalXPEarned = stats.XP
	}
	if v, ok := asInt(fields["coins"]); ok && v >= 0 {
		stats.Coins = v
	}
	if v, ok := asInt(fields["streak"]); ok && v >= 0 {
		stats.Streak = v
	}
	if v, ok := asInt(fields["streakRecord"]); ok && v >= stats.Streak {
		stats.StreakRecord = v
	} else {
		// Pre-v2: record tracked implicitly; backfill from streak.
		stats.StreakRecord = stats.Streak
	}
	if v, ok := asString(fields["lastActiveDate"]); ok {
		stats.LastActiveDate = v
	}
	if v, ok := asString(fields["lastDailyChallengeNotified"]); ok {
		stats.LastDailyChallengeNotified = v
	}
	if v, ok := asInt(fields["questsCompleted"]); ok && v >= 0 {
		stats.QuestsCompleted = v
	}

	// Roll over any xp overflow left by older builds so the in-level
	// invariant holds from the first read.
	stats, _ = progression.ApplyXP(stats, 0)
	return stats
}

func restoreQuests(raw json.RawMessage, today string) []quest.Quest {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []quest.Quest{}
	}

	out := make([]quest.Quest, 0, len(items))
	for _, item := range items {
		if q, ok := restoreQuest(item, today); ok {
			out = append(out, q)
		}
	}
	return out
}

func restoreQuest(raw json.RawMessage, today string) (quest.Quest, bool) {
	fields, ok := asObject(raw)
	if !ok {
		return quest.Quest{}, false
	}

	title, _ := asString(fields["title"])
	if strings.TrimSpace(title) == "" {
		return quest.Quest{}, false
	}

	q := quest.Quest{
		Title:     title,
		Status:    quest.StatusActive,
		Recurring: quest.RecurNone,
		Badge:     quest.BadgeNone,
	}

	if id, ok := asString(fields["id"]); ok && id != "" {
		q.ID = id
	} else {
		q.ID = uuid.NewString()
	}
	if d, err := quest.ParseDifficulty(str(fields["difficulty"])); err == nil {
		q.Difficulty = d
	} else {
		q.Difficulty = quest.DifficultyEasy
	}
	if v, ok := asInt(fields["xp"]); ok && v > 0 {
		q.XP = v
	} else {
		q.XP = q.Difficulty.BaseXP()
	}
	if s := quest.Status(str(fields["status"])); s.IsValid() {
		q.Status = s
	}
	// Unrecognized recurrence values (e.g. a removed "monthly") fall
	// back to none rather than failing the quest.
	if r, err := quest.ParseRecurrence(str(fields["recurring"])); err == nil {
		q.Recurring = r
	}
	q.DueDate = str(fields["dueDate"])
	q.Category = str(fields["category"])
	q.CompletedAt = str(fields["completedAt"])
	if b, ok := asString(fields["badge"]); ok && b != "" {
		q.Badge = b
	}
	if t, ok := asTime(fields["createdAt"]); ok {
		q.CreatedAt = t
	}

	q.SubTasks = restoreSubTasks(fields["subTasks"])

	// Migration rule: a completed recurring quest with no completion
	// date would reactivate forever; assume it completed today.
	if q.Recurring != quest.RecurNone && q.Status == quest.StatusCompleted && q.CompletedAt == "" {
		q.CompletedAt = today
	}
	return q, true
}

func restoreSubTasks(raw json.RawMessage) []quest.SubTask {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]quest.SubTask, 0, len(items))
	for _, item := range items {
		fields, ok := asObject(item)
		if !ok {
			continue
		}
		st := quest.SubTask{Text: str(fields["text"])}
		if id, ok := asString(fields["id"]); ok && id != "" {
			st.ID = id
		} else {
			st.ID = uuid.NewString()
		}
		if b, ok := asBool(fields["done"]); ok {
			st.Done = b
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func restoreNotes(raw json.RawMessage, now time.Time) []note.Note {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []note.Note{}
	}
	out := make([]note.Note, 0, len(items))
	for _, item := range items {
		fields, ok := asObject(item)
		if !ok {
			continue
		}
		n := note.Note{Text: str(fields["text"]), CreatedAt: now}
		if id, ok := asString(fields["id"]); ok && id != "" {
			n.ID = id
		} else {
			n.ID = uuid.NewString()
		}
		if t, ok := asTime(fields["createdAt"]); ok {
			n.CreatedAt = t
		}
		out = append(out, n)
	}
	return out
}

func restoreAchievements(raw json.RawMessage) []string {
	// Current shape: list of ids. Pre-v3 stored a map of id -> bool.
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return dedupe(ids)
	}
	var set map[string]bool
	if err := json.Unmarshal(raw, &set); err == nil {
		ids = ids[:0]
		for id, on := range set {
			if on {
				ids = append(ids, id)
			}
		}
		return dedupe(ids)
	}
	return nil
}

func restoreNotifications(raw json.RawMessage, now time.Time) []notify.Notification {
	var items []notify.Notification
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].Kind == "" {
			items[i].Kind = notify.KindInfo
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
	}
	return notify.Merge(nil, items)
}

func restoreShop(raw json.RawMessage) shop.State {
	var s shop.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return shop.NewState()
	}
	s = shop.Normalize(s)
	if s.Boost != nil && (s.Boost.Multiplier <= 1 || s.Boost.ExpiresAt.IsZero()) {
		s.Boost = nil
	}
	return s
}

func restoreChallenges(raw json.RawMessage, now time.Time) challenge.State {
	today := dateutil.DayKey(now)
	weekStart := dateutil.WeekStartKey(now)

	fields, ok := asObject(raw)
	if !ok {
		return challenge.NewState(today, weekStart)
	}

	s := challenge.NewState(str(fields["dailyKey"]), str(fields["weeklyKey"]))
	if v, ok := asInt(fields["dailyNotes"]); ok && v > 0 {
		s.DailyNotes = v
	}
	if v, ok := asInt(fields["dailyFocus"]); ok && v > 0 {
		s.DailyFocus = v
	}
	if v, ok := asInt(fields["weeklyNotes"]); ok && v > 0 {
		s.WeeklyNotes = v
	}
	if v, ok := asInt(fields["weeklyXp"]); ok && v > 0 {
		s.WeeklyXP = v
	}
	var claimed map[string]bool
	if err := json.Unmarshal(fields["claimed"], &claimed); err == nil {
		for id, on := range claimed {
			if on {
				s.Claimed[id] = true
			}
		}
	}
	// Stale keys are left as-is: the startup boundary pass rolls the
	// window with the same rules as midnight.
	return s
}

func restoreFocus(raw json.RawMessage, quests []quest.Quest) *focus.Session {
	var s focus.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if !s.Valid() {
		return nil
	}
	// The target must still be an active quest.
	for _, q := range quests {
		if q.ID == s.QuestID && q.Status == quest.StatusActive {
			return &s
		}
	}
	return nil
}

func windowKeys(now time.Time) (today, weekStart string) {
	return dateutil.DayKey(now), dateutil.WeekStartKey(now)
}

// Field coercion helpers. Wrong-typed values read as absent.

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func str(raw json.RawMessage) string {
	s, _ := asString(raw)
	return s
}

func asInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return int(f), true
}

func asBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

func asTime(raw json.RawMessage) (time.Time, bool) {
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
