package profile

import (
	"log"
	"strings"
	"sync"
	"time"

	"questlog/internal/achievement"
	"questlog/internal/challenge"
	"questlog/internal/clock"
	"questlog/internal/dateutil"
	"questlog/internal/note"
	"questlog/internal/notify"
	"questlog/internal/quest"
	"questlog/internal/shop"
	"questlog/internal/snapshot"
	"questlog/internal/telemetry"
)

// Store persists snapshots locally. Load returns nil bytes when the
// user has no saved state yet.
type Store interface {
	Load(userID string) ([]byte, error)
	Save(userID string, snap snapshot.Snapshot) error
}

// Mirror receives state changes for remote sync. Implementations must
// not block; the service calls them inline after every commit.
type Mirror interface {
	SnapshotChanged(snap snapshot.Snapshot)
	QuestCreated(q quest.Quest)
}

type Options struct {
	UserID       string
	Store        Store
	Recorder     telemetry.Recorder
	Clock        clock.Clock
	Logger       *log.Logger
	Catalog      shop.Catalog
	Challenges   []challenge.Definition
	DifficultyXP map[quest.Difficulty]int
	FocusBonusXP int
}

// Service is the single logical writer for one profile. All state
// transitions run as pure reductions under its lock; persistence,
// mirroring, notifications and telemetry are sequenced afterwards.
type Service struct {
	mu         sync.Mutex
	userID     string
	clk        clock.Clock
	logger     *log.Logger
	store      Store
	mirror     Mirror
	recorder   telemetry.Recorder
	catalog    shop.Catalog
	defs       []challenge.Definition
	diffXP     map[quest.Difficulty]int
	focusBonus int

	p          Profile
	hydrated   bool
	focusTimer *time.Timer
}

func NewService(opts Options) *Service {
	if strings.TrimSpace(opts.UserID) == "" {
		opts.UserID = "guest"
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.NopRecorder{}
	}
	if len(opts.Catalog.Items) == 0 {
		opts.Catalog = shop.DefaultCatalog()
	}
	if len(opts.Challenges) == 0 {
		opts.Challenges = challenge.Defaults()
	}
	return &Service{
		userID:     opts.UserID,
		clk:        opts.Clock,
		logger:     opts.Logger,
		store:      opts.Store,
		recorder:   opts.Recorder,
		catalog:    opts.Catalog,
		defs:       opts.Challenges,
		diffXP:     opts.DifficultyXP,
		focusBonus: opts.FocusBonusXP,
	}
}

// Hydrate rebuilds state from raw snapshot bytes (local or remote,
// the caller decides which copy wins) and runs the startup boundary
// pass. It must complete before the scheduler or mirror are attached.
func (s *Service) Hydrate(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	s.p = FromSnapshot(snapshot.Restore(raw, now))
	s.hydrated = true

	next, fx := applyBoundary(s.p, now)
	s.p = next
	s.commitLocked(fx, now)
}

// SetMirror attaches the remote sync writer. Called after Hydrate so
// remote state is authoritative exactly once, at load.
func (s *Service) SetMirror(m Mirror) {
	s.mu.Lock()
	s.mirror = m
	s.mu.Unlock()
}

func (s *Service) UserID() string { return s.userID }

// RunBoundary executes the day/week reconciliation pass. The midnight
// scheduler calls it; it is also implicit before every operation.
func (s *Service) RunBoundary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.ensureHydratedLocked()
	next, fx := applyBoundary(s.p, now)
	s.p = next
	s.commitLocked(fx, now)
}

// Close cancels the focus timer. The owning serverapp stops the
// midnight scheduler and sync writer separately.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopFocusTimerLocked()
}

// View returns the current state as a snapshot value, reconciled to
// now. Handlers serialize it directly.
func (s *Service) View() snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.ensureHydratedLocked()
	next, fx := applyBoundary(s.p, now)
	s.p = next
	s.commitLocked(fx, now)
	snap := s.p.ToSnapshot()
	snap.SavedAt = now
	return snap
}

func (s *Service) Notifications() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureHydratedLocked()
	out := make([]notify.Notification, len(s.p.Notifications))
	copy(out, s.p.Notifications)
	return out
}

// MergeReminders folds inbound remote reminder notifications into the
// list, deduplicated by id.
func (s *Service) MergeReminders(inbound []notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.ensureHydratedLocked()
	s.p.Notifications = notify.Merge(s.p.Notifications, inbound)
	s.commitLocked(Effects{}, now)
}

type CreateQuestParams struct {
	Title      string
	Difficulty quest.Difficulty
	Recurring  quest.Recurrence
	Category   string
	DueDate    string
	SubTasks   []string
}

func (s *Service) CreateQuest(params CreateQuestParams) (quest.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	q := quest.New(params.Title, params.Difficulty, params.Recurring, now)
	if xp, ok := s.diffXP[q.Difficulty]; ok && xp > 0 {
		q.XP = xp
	}
	q.Category = params.Category
	if params.DueDate != "" {
		if _, ok := dateutil.ParseDay(params.DueDate); ok {
			q.DueDate = params.DueDate
		}
	}
	for _, text := range params.SubTasks {
		if strings.TrimSpace(text) != "" {
			q.AddSubTask(text)
		}
	}

	next, fx := applyQuestCreated(s.p, q)
	s.p = next
	s.commitLocked(fx, now)
	return q, nil
}

func (s *Service) CompleteQuest(id string) (quest.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, fx, err := applyQuestCompleted(s.p, id, now)
	if err != nil {
		return quest.Quest{}, err
	}
	hadFocus := s.p.Focus != nil && next.Focus == nil
	s.p = next
	if hadFocus {
		s.stopFocusTimerLocked()
	}
	s.commitLocked(fx, now)

	i, _ := s.p.findQuest(id)
	return s.p.Quests[i], nil
}

func (s *Service) ToggleSubTask(questID, subID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, err := applySubTaskToggled(s.p, questID, subID)
	if err != nil {
		return err
	}
	s.p = next
	s.commitLocked(Effects{}, now)
	return nil
}

func (s *Service) SetQuestBadge(questID, badgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, err := applyQuestBadge(s.p, questID, badgeID)
	if err != nil {
		return err
	}
	s.p = next
	s.commitLocked(Effects{}, now)
	return nil
}

func (s *Service) AddNote(text string) (note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	n := note.New(text, now)
	next, fx := applyNoteAdded(s.p, n)
	s.p = next
	s.commitLocked(fx, now)
	return n, nil
}

func (s *Service) StartFocus(questID string, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, fx, err := applyFocusStarted(s.p, questID, duration, s.focusBonus, now)
	if err != nil {
		return err
	}
	s.p = next
	s.armFocusTimerLocked(duration)
	s.commitLocked(fx, now)
	return nil
}

func (s *Service) StopFocus() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, err := applyFocusStopped(s.p)
	if err != nil {
		return err
	}
	s.p = next
	s.stopFocusTimerLocked()
	s.commitLocked(Effects{}, now)
	return nil
}

// FocusTick awards an expired session's bonus. Driven by the session
// timer and callable from the API; harmless when nothing is due.
func (s *Service) FocusTick() {
	s.RunBoundary()
}

func (s *Service) ClaimChallenge(id string) (challenge.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	var def challenge.Definition
	found := false
	for _, d := range s.defs {
		if d.ID == id {
			def, found = d, true
			break
		}
	}
	if !found {
		return def, ErrUnknownChallenge
	}

	next, fx, err := applyChallengeClaimed(s.p, def, now)
	if err != nil {
		return def, err
	}
	s.p = next
	s.commitLocked(fx, now)
	return def, nil
}

func (s *Service) ChallengeDefinitions() []challenge.Definition {
	out := make([]challenge.Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

func (s *Service) Catalog() shop.Catalog { return s.catalog }

func (s *Service) PurchaseItem(id string) (shop.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	item, ok := s.catalog.Find(id)
	if !ok {
		return shop.Item{}, ErrUnknownItem
	}

	next, fx, err := applyItemPurchased(s.p, item, now)
	if err != nil {
		return item, err
	}
	s.p = next
	s.commitLocked(fx, now)
	return item, nil
}

func (s *Service) EquipItem(kind shop.ItemKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()

	next, err := applyEquipped(s.p, kind, id)
	if err != nil {
		return err
	}
	s.p = next
	s.commitLocked(Effects{}, now)
	return nil
}

func (s *Service) SetSfxEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.boundaryLocked()
	s.p.SfxEnabled = on
	s.commitLocked(Effects{}, now)
}

// boundaryLocked reconciles windows before a mutating event so stale
// windows are never credited, and returns the event instant.
func (s *Service) boundaryLocked() time.Time {
	now := s.ensureHydratedLocked()
	next, fx := applyBoundary(s.p, now)
	s.p = next
	s.commitLocked(fx, now)
	return now
}

func (s *Service) ensureHydratedLocked() time.Time {
	now := s.clk.Now()
	if !s.hydrated {
		s.p = FromSnapshot(snapshot.Restore(nil, now))
		s.hydrated = true
	}
	return now
}

// commitLocked sequences side effects after a pure reduction: unlock
// achievements, append notifications, persist, mirror, record.
func (s *Service) commitLocked(fx Effects, now time.Time) {
	updated, fresh := achievement.Evaluate(s.p.Stats, s.p.Achievements)
	s.p.Achievements = updated
	for _, a := range fresh {
		fx.notifyf(notify.KindAchievement, now, "Achievement unlocked: %s", a.Title)
	}

	for _, n := range fx.Notifications {
		s.p.Notifications = notify.Push(s.p.Notifications, n)
	}

	snap := s.p.ToSnapshot()
	snap.SavedAt = now

	if s.store != nil {
		if err := s.store.Save(s.userID, snap); err != nil {
			s.logger.Printf("snapshot save failed for %s: %v", s.userID, err)
		}
	}
	if s.mirror != nil {
		s.mirror.SnapshotChanged(snap)
		if fx.CreatedQuest != nil {
			s.mirror.QuestCreated(*fx.CreatedQuest)
		}
	}
	for _, rec := range fx.Records {
		if err := s.recorder.Record(s.userID, rec.Type, rec.Meta); err != nil {
			s.logger.Printf("telemetry record failed: %v", err)
		}
	}
}

func (s *Service) armFocusTimerLocked(d time.Duration) {
	s.stopFocusTimerLocked()
	s.focusTimer = time.AfterFunc(d+time.Second, s.FocusTick)
}

func (s *Service) stopFocusTimerLocked() {
	if s.focusTimer != nil {
		s.focusTimer.Stop()
		s.focusTimer = nil
	}
}
