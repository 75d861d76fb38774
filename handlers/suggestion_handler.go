package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/landledger/services"
)

// SuggestionHandler expõe os insights e as smart picks.
type SuggestionHandler struct {
	Service *services.SuggestionService
}

func NewSuggestionHandler(s *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Service: s}
}

// List devolve os insights não descartados.
// GET /suggestions
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Suggestions(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SmartPicks devolve as recomendações. No POST o corpo traz as preferências.
// GET|POST /suggestions/smart-picks
func (h *SuggestionHandler) SmartPicks(w http.ResponseWriter, r *http.Request) {
	var prefs *services.SmartPickPreferences
	if r.Method == http.MethodPost {
		prefs = &services.SmartPickPreferences{}
		if err := decodeJSON(r, prefs); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}
	picks, err := h.Service.SmartPicks(r.Context(), prefs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// Dismiss esconde um insight.
// DELETE /suggestions/{id}
func (h *SuggestionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Dismiss(r.Context(), currentUser(r).ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh recarrega insights e smart picks.
// POST /suggestions/refresh
func (h *SuggestionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Refresh(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
