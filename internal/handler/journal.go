package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/service"
)

// JournalHandler serves the food log, goal and summary endpoints.
type JournalHandler struct {
	journal *service.JournalService
	logger  *slog.Logger
}

// NewJournalHandler returns a handler backed by journal.
func NewJournalHandler(journal *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{journal: journal, logger: logger}
}

// dateParam returns ?date=, or today when it is absent.
func (h *JournalHandler) dateParam(r *http.Request) string {
	if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
		return d
	}
	return h.journal.Today()
}

// HandleListEntries returns the entries logged on a day.
//
// HTTP: GET /api/log?date=YYYY-MM-DD
func (h *JournalHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.EntriesForDate(r.Context(), h.dateParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type logFoodRequest struct {
	Date     string       `json:"date"`
	FoodID   string       `json:"food_id"`
	FoodName string       `json:"food_name"`
	Servings float64      `json:"servings"`
	Macros   model.Macros `json:"macros"`
}

// HandleLogFood records a manual entry. Macros are totals for the given
// servings.
//
// HTTP: POST /api/log
// BODY: {"date":"2024-01-01","food_name":"Apple","servings":1,"macros":{"calories":95,...}}
func (h *JournalHandler) HandleLogFood(w http.ResponseWriter, r *http.Request) {
	var req logFoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Date == "" {
		req.Date = h.journal.Today()
	}

	entry, err := h.journal.LogFood(r.Context(), req.Date, model.FoodLogEntry{
		FoodID:   req.FoodID,
		FoodName: req.FoodName,
		Servings: req.Servings,
		Macros:   req.Macros,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleDeleteEntry removes an entry. Unknown ids still answer 204.
//
// HTTP: DELETE /api/log/{id}
func (h *JournalHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.RemoveFood(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type goalResponse struct {
	Goal      model.UserGoal `json:"goal"`
	IsDefault bool           `json:"isDefault"`
}

// HandleGetGoal returns the active goal, falling back to the defaults.
//
// HTTP: GET /api/goal
func (h *JournalHandler) HandleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, isDefault, err := h.journal.CurrentGoal(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goalResponse{Goal: goal, IsDefault: isDefault})
}

// HandleSaveGoal creates or overwrites the goal.
//
// HTTP: PUT /api/goal
func (h *JournalHandler) HandleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var goal model.UserGoal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.journal.SaveGoal(r.Context(), goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleListGoals returns the stored goal records (zero or one).
//
// HTTP: GET /api/goals
func (h *JournalHandler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.journal.Goals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// HandleAddGoal creates the goal; 409 when one already exists.
//
// HTTP: POST /api/goals
func (h *JournalHandler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	var goal model.UserGoal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, err)
		return
	}

	added, err := h.journal.AddGoal(r.Context(), goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// HandleEditGoal overwrites every target of an existing goal.
//
// HTTP: PUT /api/goals/{id}
func (h *JournalHandler) HandleEditGoal(w http.ResponseWriter, r *http.Request) {
	var goal model.UserGoal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, err)
		return
	}

	edited, err := h.journal.EditGoal(r.Context(), r.PathValue("id"), goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edited)
}

// HandleSummary returns a day's entries, totals and goal progress.
//
// HTTP: GET /api/summary?date=YYYY-MM-DD
func (h *JournalHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.journal.Summary(r.Context(), h.dateParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
