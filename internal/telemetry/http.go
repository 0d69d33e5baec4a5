package telemetry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Handler serves aggregated telemetry over the API.
type Handler struct {
	repo         *SQLiteRepo
	userResolver func(*http.Request) string
}

func NewHandler(repo *SQLiteRepo, userResolver func(*http.Request) string) *Handler {
	return &Handler{repo: repo, userResolver: userResolver}
}

// GET /api/telemetry/stats?days=7
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if h.repo == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "telemetry disabled"})
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	userID := "guest"
	if h.userResolver != nil {
		userID = h.userResolver(r)
	}

	events, err := h.repo.Events(userID, since, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "could not load events"})
		return
	}

	_ = json.NewEncoder(w).Encode(CalculateStats(events, since))
}
