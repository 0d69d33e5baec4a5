package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"questlog/internal/quest"
	"questlog/internal/server"
	"questlog/internal/shop"
)

// Handler exposes the profile service over JSON. The resolver picks
// the service for the request's user, mirroring per-user store scoping.
type Handler struct {
	svcResolver func(*http.Request) *Service
	syncStatus  func() string
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) SetServiceResolver(fn func(*http.Request) *Service) {
	h.svcResolver = fn
}

// SetSyncStatus wires the remote sync health flag into profile views.
func (h *Handler) SetSyncStatus(fn func() string) {
	h.syncStatus = fn
}

func (h *Handler) serviceForRequest(r *http.Request) *Service {
	if h.svcResolver == nil {
		return nil
	}
	return h.svcResolver(r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrQuestNotFound),
		errors.Is(err, ErrSubTaskNotFound),
		errors.Is(err, ErrUnknownItem),
		errors.Is(err, ErrUnknownChallenge),
		errors.Is(err, ErrNoActiveFocus):
		return http.StatusNotFound
	case errors.Is(err, ErrQuestAlreadyCompleted),
		errors.Is(err, ErrChallengeAlreadyClaimed),
		errors.Is(err, ErrAlreadyOwned):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientCoins):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrSubTasksIncomplete),
		errors.Is(err, ErrChallengeIncomplete),
		errors.Is(err, ErrFocusTargetCompleted),
		errors.Is(err, ErrNotOwned):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	writeErr(w, errStatus(err), err.Error())
}

// RegisterRoutes mounts the API under the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, rr *server.RouteRegistry) {
	server.Handle(mux, rr, "GET /api/profile", "Full profile view", "", h.GetProfile)
	server.Handle(mux, rr, "POST /api/quests", "Create a quest", `{"title":"Write report","difficulty":"medium","recurring":"daily"}`, h.CreateQuest)
	server.Handle(mux, rr, "POST /api/quests/{id}/complete", "Complete a quest", "", h.CompleteQuest)
	server.Handle(mux, rr, "POST /api/quests/{id}/subtasks/{subId}/toggle", "Toggle a sub-task", "", h.ToggleSubTask)
	server.Handle(mux, rr, "POST /api/quests/{id}/badge", "Assign a title badge", `{"badgeId":"badge_fire"}`, h.SetQuestBadge)
	server.Handle(mux, rr, "POST /api/notes", "Add a note", `{"text":"Stand-up at 10"}`, h.AddNote)
	server.Handle(mux, rr, "POST /api/focus/start", "Start a focus session", `{"questId":"...","durationMinutes":25}`, h.StartFocus)
	server.Handle(mux, rr, "POST /api/focus/stop", "Abandon the focus session", "", h.StopFocus)
	server.Handle(mux, rr, "POST /api/focus/tick", "Settle an expired focus session", "", h.FocusTick)
	server.Handle(mux, rr, "POST /api/challenges/{id}/claim", "Claim a completed challenge", "", h.ClaimChallenge)
	server.Handle(mux, rr, "POST /api/shop/purchase", "Buy a shop item", `{"itemId":"boost_2x_1h"}`, h.Purchase)
	server.Handle(mux, rr, "POST /api/shop/equip", "Equip an owned cosmetic", `{"kind":"frame","itemId":"classic"}`, h.Equip)
	server.Handle(mux, rr, "GET /api/notifications", "Recent notifications", "", h.GetNotifications)
	server.Handle(mux, rr, "POST /api/sfx", "Toggle sound effects", `{"enabled":true}`, h.SetSfx)
}

// GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}
	status := ""
	if h.syncStatus != nil {
		status = h.syncStatus()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":    svc.View(),
		"challenges": svc.ChallengeDefinitions(),
		"catalog":    svc.Catalog().Items,
		"syncError":  status,
	})
}

// POST /api/quests
func (h *Handler) CreateQuest(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		Title      string   `json:"title"`
		Difficulty string   `json:"difficulty"`
		Recurring  string   `json:"recurring"`
		Category   string   `json:"category"`
		DueDate    string   `json:"dueDate"`
		SubTasks   []string `json:"subTasks"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeErr(w, http.StatusBadRequest, `missing field "title"`)
		return
	}

	difficulty, err := quest.ParseDifficulty(in.Difficulty)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	recurring := quest.RecurNone
	if strings.TrimSpace(in.Recurring) != "" {
		recurring, err = quest.ParseRecurrence(in.Recurring)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	q, err := svc.CreateQuest(CreateQuestParams{
		Title:      in.Title,
		Difficulty: difficulty,
		Recurring:  recurring,
		Category:   in.Category,
		DueDate:    in.DueDate,
		SubTasks:   in.SubTasks,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// POST /api/quests/{id}/complete
func (h *Handler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	q, err := svc.CompleteQuest(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quest": q,
		"stats": svc.View().Stats,
	})
}

// POST /api/quests/{id}/subtasks/{subId}/toggle
func (h *Handler) ToggleSubTask(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	if err := svc.ToggleSubTask(r.PathValue("id"), r.PathValue("subId")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/quests/{id}/badge
func (h *Handler) SetQuestBadge(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		BadgeID string `json:"badgeId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.BadgeID == "" {
		in.BadgeID = quest.BadgeNone
	}

	if err := svc.SetQuestBadge(r.PathValue("id"), in.BadgeID); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/notes
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeErr(w, http.StatusBadRequest, `missing field "text"`)
		return
	}

	n, err := svc.AddNote(in.Text)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// POST /api/focus/start
func (h *Handler) StartFocus(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		QuestID         string `json:"questId"`
		DurationMinutes int    `json:"durationMinutes"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 25
	}

	if err := svc.StartFocus(in.QuestID, time.Duration(in.DurationMinutes)*time.Minute); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"focus": svc.View().Focus})
}

// POST /api/focus/stop
func (h *Handler) StopFocus(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	if err := svc.StopFocus(); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/focus/tick
func (h *Handler) FocusTick(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	svc.FocusTick()
	writeJSON(w, http.StatusOK, map[string]any{
		"focus": svc.View().Focus,
		"stats": svc.View().Stats,
	})
}

// POST /api/challenges/{id}/claim
func (h *Handler) ClaimChallenge(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	def, err := svc.ClaimChallenge(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claimed": def.ID,
		"coins":   svc.View().Stats.Coins,
	})
}

// POST /api/shop/purchase
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		ItemID string `json:"itemId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	item, err := svc.PurchaseItem(in.ItemID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item": item,
		"shop": svc.View().Shop,
	})
}

// POST /api/shop/equip
func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		Kind   string `json:"kind"`
		ItemID string `json:"itemId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	kind := shop.ItemKind(strings.TrimSpace(strings.ToLower(in.Kind)))
	if kind != shop.KindFrame && kind != shop.KindSkin {
		writeErr(w, http.StatusBadRequest, "kind must be frame or skin")
		return
	}

	if err := svc.EquipItem(kind, in.ItemID); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shop": svc.View().Shop})
}

// GET /api/notifications
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, svc.Notifications())
}

// POST /api/sfx
func (h *Handler) SetSfx(w http.ResponseWriter, r *http.Request) {
	svc := h.serviceForRequest(r)
	if svc == nil {
		writeErr(w, http.StatusInternalServerError, "profile service unavailable")
		return
	}

	var in struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	svc.SetSfxEnabled(in.Enabled)
	writeJSON(w, http.StatusOK, map[string]any{"sfxEnabled": in.Enabled})
}
