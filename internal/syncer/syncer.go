// Package syncer mirrors profile snapshots to a remote store in the
// background. Writes are debounced so bursts of activity collapse to
// one upload; quest creations are pushed individually so the remote
// side sees new quests without waiting for the next snapshot.
package syncer

import (
	"log"
	"sync"
	"time"

	"questlog/internal/notify"
	"questlog/internal/quest"
	"questlog/internal/snapshot"
)

// RemoteStore is the remote persistence contract. Transport is the
// implementation's business; errors are surfaced on Status.
type RemoteStore interface {
	Load(userID string) ([]byte, error)
	Save(userID string, snap snapshot.Snapshot) error
	PushQuest(userID string, q quest.Quest) error
	Reminders(userID string) ([]notify.Notification, error)
}

const defaultDebounce = 2 * time.Second

type Options struct {
	UserID   string
	Remote   RemoteStore
	Logger   *log.Logger
	Debounce time.Duration
}

// Writer coalesces snapshot changes and flushes them after a quiet
// period. It implements the service's Mirror contract.
type Writer struct {
	userID   string
	remote   RemoteStore
	logger   *log.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending *snapshot.Snapshot
	timer   *time.Timer
	stopped bool
	lastErr string
}

func NewWriter(opts Options) *Writer {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Writer{
		userID:   opts.UserID,
		remote:   opts.Remote,
		logger:   opts.Logger,
		debounce: opts.Debounce,
	}
}

// SnapshotChanged queues the latest snapshot for upload. Only the
// newest queued snapshot is ever sent.
func (w *Writer) SnapshotChanged(snap snapshot.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.pending = &snap
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flushTimer)
	} else {
		w.timer.Reset(w.debounce)
	}
}

// QuestCreated pushes a single quest immediately, outside the
// debounce window.
func (w *Writer) QuestCreated(q quest.Quest) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	if err := w.remote.PushQuest(w.userID, q); err != nil {
		w.recordErr(err)
		return
	}
	w.clearErr()
}

// Flush uploads any pending snapshot right away.
func (w *Writer) Flush() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()

	if snap != nil {
		w.upload(*snap)
	}
}

// Stop flushes and refuses further work.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()

	if snap != nil {
		w.upload(*snap)
	}
}

// Status reports the last sync error, empty when healthy.
func (w *Writer) Status() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// PullReminders fetches inbound reminder notifications from the
// remote store.
func (w *Writer) PullReminders() ([]notify.Notification, error) {
	list, err := w.remote.Reminders(w.userID)
	if err != nil {
		w.recordErr(err)
		return nil, err
	}
	w.clearErr()
	return list, nil
}

func (w *Writer) flushTimer() {
	w.mu.Lock()
	w.timer = nil
	snap := w.pending
	w.pending = nil
	stopped := w.stopped
	w.mu.Unlock()

	if snap == nil || stopped {
		return
	}
	w.upload(*snap)
}

func (w *Writer) upload(snap snapshot.Snapshot) {
	if err := w.remote.Save(w.userID, snap); err != nil {
		w.logger.Printf("remote sync failed for %s: %v", w.userID, err)
		w.recordErr(err)
		return
	}
	w.clearErr()
}

func (w *Writer) recordErr(err error) {
	w.mu.Lock()
	w.lastErr = err.Error()
	w.mu.Unlock()
}

func (w *Writer) clearErr() {
	w.mu.Lock()
	w.lastErr = ""
	w.mu.Unlock()
}
