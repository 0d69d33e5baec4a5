// Package serverapp assembles the HTTP application: config, stores,
// per-user profile services, telemetry, sync, scheduler and routes.
package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"

	"questlog/internal/clock"
	"questlog/internal/config"
	"questlog/internal/httpmw"
	"questlog/internal/profile"
	"questlog/internal/quest"
	"questlog/internal/server"
	"questlog/internal/shop"
	"questlog/internal/store"
	"questlog/internal/syncer"
	"questlog/internal/telemetry"
	"questlog/ui/page"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Clock  clock.Clock
	// Remote is optional; when set, snapshots mirror to it and
	// reminders are merged from it.
	Remote syncer.RemoteStore
	// DisableTelemetry skips the sqlite event log (tests).
	DisableTelemetry bool
}

// App owns every long-lived component. Construction hydrates nothing;
// each user's service hydrates lazily on first request, always before
// its sync writer is attached.
type App struct {
	cfg    *config.Config
	logger *log.Logger
	clk    clock.Clock
	local  *store.FileRepo
	remote syncer.RemoteStore
	tele   *telemetry.SQLiteRepo

	mu       sync.Mutex
	services map[string]*profile.Service
	writers  map[string]*syncer.Writer

	sched   *profile.Scheduler
	handler http.Handler
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	local, err := store.NewFileRepo(opts.Config.Server.DataDir)
	if err != nil {
		return nil, err
	}

	var tele *telemetry.SQLiteRepo
	if !opts.DisableTelemetry {
		tele, err = telemetry.NewSQLiteRepo(opts.Config.Server.TelemetryPath)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		cfg:      opts.Config,
		logger:   opts.Logger,
		clk:      opts.Clock,
		local:    local,
		remote:   opts.Remote,
		tele:     tele,
		services: map[string]*profile.Service{},
		writers:  map[string]*syncer.Writer{},
	}

	app.sched = profile.NewScheduler(app.clk, app.logger, app.runBoundaries)
	app.handler = app.buildHandler()
	app.sched.Start()
	return app, nil
}

func (a *App) Handler() http.Handler { return a.handler }

// Close tears down in reverse order: scheduler first so no boundary
// fires mid-shutdown, then sync writers (flushing), then services.
func (a *App) Close() {
	a.sched.Stop()

	a.mu.Lock()
	writers := make([]*syncer.Writer, 0, len(a.writers))
	for _, w := range a.writers {
		writers = append(writers, w)
	}
	services := make([]*profile.Service, 0, len(a.services))
	for _, s := range a.services {
		services = append(services, s)
	}
	a.mu.Unlock()

	for _, w := range writers {
		w.Stop()
	}
	for _, s := range services {
		s.Close()
	}
	if a.tele != nil {
		if err := a.tele.Close(); err != nil {
			a.logger.Printf("telemetry close: %v", err)
		}
	}
}

func (a *App) runBoundaries() {
	a.mu.Lock()
	services := make([]*profile.Service, 0, len(a.services))
	for _, s := range a.services {
		services = append(services, s)
	}
	a.mu.Unlock()

	for _, s := range services {
		s.RunBoundary()
	}
}

// serviceFor returns the user's service, hydrating it on first use.
// Remote state wins over local exactly once, here.
func (a *App) serviceFor(userID string) *profile.Service {
	a.mu.Lock()
	defer a.mu.Unlock()

	if svc, ok := a.services[userID]; ok {
		return svc
	}

	var recorder telemetry.Recorder = telemetry.NopRecorder{}
	if a.tele != nil {
		recorder = a.tele
	}

	svc := profile.NewService(profile.Options{
		UserID:       userID,
		Store:        a.local,
		Recorder:     recorder,
		Clock:        a.clk,
		Logger:       a.logger,
		Catalog:      shop.Catalog{Items: a.cfg.Shop.Items},
		Challenges:   a.cfg.Challenges,
		DifficultyXP: difficultyXP(a.cfg.Balance.DifficultyXP),
		FocusBonusXP: a.cfg.Balance.FocusBonusXP,
	})

	raw, err := a.local.Load(userID)
	if err != nil {
		a.logger.Printf("local load for %s: %v", userID, err)
	}
	if a.remote != nil {
		if remoteRaw, err := a.remote.Load(userID); err != nil {
			a.logger.Printf("remote load for %s: %v", userID, err)
		} else if remoteRaw != nil {
			raw = remoteRaw
		}
	}
	svc.Hydrate(raw)

	if a.remote != nil {
		w := syncer.NewWriter(syncer.Options{
			UserID:   userID,
			Remote:   a.remote,
			Logger:   a.logger,
			Debounce: time.Duration(a.cfg.Server.SyncDebounceSeconds) * time.Second,
		})
		svc.SetMirror(w)
		a.writers[userID] = w

		if reminders, err := w.PullReminders(); err == nil && len(reminders) > 0 {
			svc.MergeReminders(reminders)
		}
	}

	a.services[userID] = svc
	return svc
}

func difficultyXP(m map[string]int) map[quest.Difficulty]int {
	out := make(map[quest.Difficulty]int, len(m))
	for k, v := range m {
		d, err := quest.ParseDifficulty(k)
		if err != nil || v <= 0 {
			continue
		}
		out[d] = v
	}
	return out
}

func (a *App) userFor(r *http.Request) string {
	return httpmw.UserIDFromContext(r.Context(), a.cfg.Server.DefaultUser)
}

func (a *App) syncStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, w := range a.writers {
		if s := w.Status(); s != "" {
			return s
		}
	}
	return ""
}

func (a *App) buildHandler() http.Handler {
	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	server.Handle(mux, rr, "GET /healthz", "Liveness probe", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "questlog",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	server.Handle(mux, rr, "GET /readyz", "Readiness probe", "", func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.local.Load(a.cfg.Server.DefaultUser); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "snapshot storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "questlog"})
	})

	profileHandler := profile.NewHandler()
	profileHandler.SetServiceResolver(func(r *http.Request) *profile.Service {
		return a.serviceFor(a.userFor(r))
	})
	profileHandler.SetSyncStatus(a.syncStatus)
	profileHandler.RegisterRoutes(mux, rr)

	teleHandler := telemetry.NewHandler(a.tele, a.userFor)
	server.Handle(mux, rr, "GET /api/telemetry/stats", "Aggregated event counters", "", teleHandler.Stats)

	server.Handle(mux, rr, "GET /api/config", "Effective configuration", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a.cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("GET /_/admin/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})
	mux.Handle("GET /_/admin", templ.Handler(page.AdminPage(a.cfg.Server.Addr, rr.List())))

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(a.logger),
		httpmw.WithRequestID,
		httpmw.WithUser,
		httpmw.WithRecover(a.logger),
	)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
