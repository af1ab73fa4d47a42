package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// HistoryHandler serves read-only views of the current history
type HistoryHandler struct {
	history HistorySource
	engine  *brain.Engine
	logger  *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history HistorySource, engine *brain.Engine, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		engine:  engine,
		logger:  log,
	}
}

// Summary returns the history summary, quality snapshot and parse warnings
// GET /api/history/summary
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	hist := h.history.Current()
	if hist == nil {
		respondError(w, http.StatusServiceUnavailable, "history not loaded yet")
		return
	}

	respondJSON(w, http.StatusOK, hist)
}

// Analysis explains one number against the current history
// GET /api/analysis/{number}
func (h *HistoryHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]
	if !contracts.IsValidNumber(number) {
		respondError(w, http.StatusBadRequest, "number must be two digits 00..99")
		return
	}

	hist := h.history.Current()
	if hist == nil {
		respondError(w, http.StatusServiceUnavailable, "history not loaded yet")
		return
	}

	report, err := h.engine.AnalyzeNumber(r.Context(), hist.Records, number)
	if err != nil {
		var insufficient *contracts.InsufficientDataError
		if errors.As(err, &insufficient) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.WithError(err).WithField("number", number).Error("Failed to analyze number")
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
