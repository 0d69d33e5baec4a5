package profile

import (
	"fmt"
	"time"

	"questlog/internal/challenge"
	"questlog/internal/dateutil"
	"questlog/internal/focus"
	"questlog/internal/note"
	"questlog/internal/notify"
	"questlog/internal/progression"
	"questlog/internal/quest"
	"questlog/internal/shop"
	"questlog/internal/telemetry"
)

// Effects collects everything a reduction wants the orchestrator to do
// afterwards. The reducers themselves never touch I/O.
type Effects struct {
	Notifications []notify.Notification
	Records       []Record
	LevelUps      int
	XPAwarded     int
	CreatedQuest  *quest.Quest
}

// Record is a pending telemetry event.
type Record struct {
	Type telemetry.EventType
	Meta telemetry.Metadata
}

func (e *Effects) notifyf(kind notify.Kind, now time.Time, format string, args ...any) {
	e.Notifications = append(e.Notifications, notify.New(kind, fmt.Sprintf(format, args...), now))
}

func (e *Effects) record(t telemetry.EventType, meta telemetry.Metadata) {
	e.Records = append(e.Records, Record{Type: t, Meta: meta})
}

var streakMilestones = map[int]bool{3: true, 7: true, 14: true, 30: true, 60: true, 100: true}

// applyBoundary is the reconciliation pass run at hydration, at every
// local midnight, and before any mutating event so stale windows are
// never credited. It is idempotent within a day.
func applyBoundary(p Profile, now time.Time) (Profile, Effects) {
	var fx Effects
	today := dateutil.DayKey(now)
	weekStart := dateutil.WeekStartKey(now)

	var reactivated []string
	p.Quests, reactivated = quest.Reconcile(p.Quests, now)

	p.Challenges = challenge.RollWindow(p.Challenges, today, weekStart)

	if p.Shop.Boost != nil && !p.Shop.Boost.IsActive(now) {
		p.Shop.Boost = nil
	}

	var broken bool
	p.Stats, broken = progression.CheckStreakBreak(p.Stats, today)
	if broken {
		fx.notifyf(notify.KindStreakBroken, now, "Your streak has ended. Complete a quest to start a new one.")
	}

	if p.Stats.LastDailyChallengeNotified != today {
		p.Stats.LastDailyChallengeNotified = today
		fx.notifyf(notify.KindDailyAvailable, now, "New daily challenges are available.")
	}

	p, fx = awardFocusIfDue(p, now, fx)

	if len(reactivated) > 0 || broken {
		fx.record(telemetry.EventBoundaryCrossed, telemetry.Metadata{
			"day":         today,
			"reactivated": len(reactivated),
			"streakBroke": broken,
		})
	}
	return p, fx
}

func applyQuestCreated(p Profile, q quest.Quest) (Profile, Effects) {
	var fx Effects
	p.Quests = append(append([]quest.Quest{}, p.Quests...), q)
	fx.CreatedQuest = &q
	fx.record(telemetry.EventQuestCreated, telemetry.Metadata{
		"questId":    q.ID,
		"difficulty": string(q.Difficulty),
		"recurring":  string(q.Recurring),
	})
	return p, fx
}

func applyQuestCompleted(p Profile, id string, now time.Time) (Profile, Effects, error) {
	var fx Effects
	i, ok := p.findQuest(id)
	if !ok {
		return p, fx, ErrQuestNotFound
	}
	q := p.Quests[i].Clone()
	if q.Status == quest.StatusCompleted {
		return p, fx, ErrQuestAlreadyCompleted
	}
	if !q.SubTasksDone() {
		return p, fx, ErrSubTasksIncomplete
	}

	today := dateutil.DayKey(now)
	q.MarkCompleted(today)

	awarded, boostAfter := shop.BoostedXP(p.Shop.Boost, q.XP, now)
	p.Shop.Boost = boostAfter

	var xpRes progression.XPResult
	p.Stats, xpRes = progression.ApplyXP(p.Stats, awarded)
	p.Stats.QuestsCompleted++

	var streakRes progression.StreakResult
	p.Stats, streakRes = progression.ApplyStreak(p.Stats, today)

	p.Challenges = challenge.XPEarned(p.Challenges, awarded)

	quests := make([]quest.Quest, len(p.Quests))
	copy(quests, p.Quests)
	quests[i] = q
	p.Quests = quests

	// Completing the focused quest ends the session without award.
	if p.Focus != nil && p.Focus.QuestID == id {
		p.Focus = nil
	}

	fx.XPAwarded = awarded
	fx.LevelUps = xpRes.LevelsGained
	fx.notifyf(notify.KindQuestCompleted, now, "Quest complete: %s (+%d XP)", q.Title, awarded)
	if xpRes.LeveledUp {
		fx.notifyf(notify.KindLevelUp, now, "Level up! You reached level %d.", xpRes.NewLevel)
	}
	if streakRes.Extended && streakMilestones[streakRes.NewStreak] {
		fx.notifyf(notify.KindStreakMilestone, now, "%d-day streak!", streakRes.NewStreak)
	}
	fx.record(telemetry.EventQuestCompleted, telemetry.Metadata{
		"questId": q.ID,
		"xp":      awarded,
		"levelUp": xpRes.LeveledUp,
		"streak":  p.Stats.Streak,
	})
	return p, fx, nil
}

func applySubTaskToggled(p Profile, questID, subID string) (Profile, error) {
	i, ok := p.findQuest(questID)
	if !ok {
		return p, ErrQuestNotFound
	}
	q := p.Quests[i].Clone()
	if q.Status == quest.StatusCompleted {
		return p, ErrQuestAlreadyCompleted
	}
	if !q.ToggleSubTask(subID) {
		return p, ErrSubTaskNotFound
	}
	quests := make([]quest.Quest, len(p.Quests))
	copy(quests, p.Quests)
	quests[i] = q
	p.Quests = quests
	return p, nil
}

func applyNoteAdded(p Profile, n note.Note) (Profile, Effects) {
	var fx Effects
	p.Notes = append(append([]note.Note{}, p.Notes...), n)
	p.Challenges = challenge.NoteLogged(p.Challenges)
	fx.record(telemetry.EventNoteAdded, telemetry.Metadata{"noteId": n.ID})
	return p, fx
}

func applyFocusStarted(p Profile, questID string, duration time.Duration, bonusXP int, now time.Time) (Profile, Effects, error) {
	var fx Effects
	i, ok := p.findQuest(questID)
	if !ok {
		return p, fx, ErrQuestNotFound
	}
	if p.Quests[i].Status == quest.StatusCompleted {
		return p, fx, ErrFocusTargetCompleted
	}
	// Starting replaces any prior session, awarding nothing for it.
	p.Focus = focus.Start(questID, duration, bonusXP, now)
	fx.record(telemetry.EventFocusStarted, telemetry.Metadata{
		"questId":    questID,
		"durationMs": p.Focus.DurationMs,
	})
	return p, fx, nil
}

func applyFocusStopped(p Profile) (Profile, error) {
	if p.Focus == nil {
		return p, ErrNoActiveFocus
	}
	p.Focus = nil
	return p, nil
}

// awardFocusIfDue grants the focus bonus exactly once when a session
// has run its full duration, then retires the session.
func awardFocusIfDue(p Profile, now time.Time, fx Effects) (Profile, Effects) {
	if !p.Focus.AwardDue(now) {
		return p, fx
	}
	bonus := p.Focus.BonusXP
	p.Focus = nil

	var xpRes progression.XPResult
	p.Stats, xpRes = progression.ApplyXP(p.Stats, bonus)
	p.Challenges = challenge.FocusAwarded(p.Challenges)
	p.Challenges = challenge.XPEarned(p.Challenges, bonus)

	fx.XPAwarded += bonus
	fx.LevelUps += xpRes.LevelsGained
	fx.notifyf(notify.KindFocusAwarded, now, "Focus session complete (+%d XP)", bonus)
	if xpRes.LeveledUp {
		fx.notifyf(notify.KindLevelUp, now, "Level up! You reached level %d.", xpRes.NewLevel)
	}
	fx.record(telemetry.EventFocusAwarded, telemetry.Metadata{"bonusXp": bonus})
	return p, fx
}

func applyChallengeClaimed(p Profile, def challenge.Definition, now time.Time) (Profile, Effects, error) {
	var fx Effects
	if p.Challenges.Claimed[def.ID] {
		return p, fx, ErrChallengeAlreadyClaimed
	}
	if challenge.Progress(p.Challenges, def) < def.Target {
		return p, fx, ErrChallengeIncomplete
	}

	p.Challenges = challenge.Claim(p.Challenges, def.ID)
	p.Stats.Coins += def.RewardCoins

	fx.notifyf(notify.KindChallengeClaimed, now, "Challenge %q claimed (+%d coins)", def.Title, def.RewardCoins)
	fx.record(telemetry.EventChallengeClaimed, telemetry.Metadata{
		"challengeId": def.ID,
		"coins":       def.RewardCoins,
	})
	return p, fx, nil
}

func applyItemPurchased(p Profile, item shop.Item, now time.Time) (Profile, Effects, error) {
	var fx Effects
	if item.Kind != shop.KindBoost && p.Shop.Owns(item.Kind, item.ID) {
		return p, fx, ErrAlreadyOwned
	}
	if p.Stats.Coins < item.Cost {
		return p, fx, ErrInsufficientCoins
	}

	p.Stats.Coins -= item.Cost
	switch item.Kind {
	case shop.KindBoost:
		d := time.Duration(item.DurationMs) * time.Millisecond
		p.Shop.Boost = shop.PurchaseBoost(p.Shop.Boost, item.Multiplier, d, now)
	default:
		p.Shop = p.Shop.AddOwned(item.Kind, item.ID)
		// Cosmetics equip on purchase; badges are assigned per quest.
		if item.Kind == shop.KindFrame || item.Kind == shop.KindSkin {
			p.Shop, _ = p.Shop.Equip(item.Kind, item.ID)
		}
	}

	fx.record(telemetry.EventItemPurchased, telemetry.Metadata{
		"itemId": item.ID,
		"kind":   string(item.Kind),
		"cost":   item.Cost,
	})
	return p, fx, nil
}

func applyEquipped(p Profile, kind shop.ItemKind, id string) (Profile, error) {
	next, ok := p.Shop.Equip(kind, id)
	if !ok {
		return p, ErrNotOwned
	}
	p.Shop = next
	return p, nil
}

func applyQuestBadge(p Profile, questID, badgeID string) (Profile, error) {
	if badgeID != quest.BadgeNone && !p.Shop.Owns(shop.KindBadge, badgeID) {
		return p, ErrNotOwned
	}
	i, ok := p.findQuest(questID)
	if !ok {
		return p, ErrQuestNotFound
	}
	q := p.Quests[i].Clone()
	q.Badge = badgeID
	quests := make([]quest.Quest, len(p.Quests))
	copy(quests, p.Quests)
	quests[i] = q
	p.Quests = quests
	return p, nil
}
