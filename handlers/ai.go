package handlers

import (
	"net/http"
	"strings"

	"clementus360/focusflow/config"
	"clementus360/focusflow/llm"
	"clementus360/focusflow/planner"
	"clementus360/focusflow/types"

	"github.com/sirupsen/logrus"
)

func (a *API) BreakdownHandler(w http.ResponseWriter, r *http.Request) {
	var req types.BreakdownRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TaskTitle) == "" {
		writeError(w, "Missing task_title", http.StatusBadRequest)
		return
	}
	if req.EstimatedMinutes != nil && *req.EstimatedMinutes < 0 {
		writeError(w, "estimated_minutes must not be negative", http.StatusBadRequest)
		return
	}

	var resp types.BreakdownResponse
	if a.AI == nil {
		resp = llm.MockBreakdown(req)
	} else {
		resp = a.AI.Breakdown(r.Context(), req)
	}

	config.Logger.WithFields(logrus.Fields{
		"source": resp.Source,
		"steps":  len(resp.Subtasks),
	}).Info("Breakdown served")
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) ScheduleSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleSuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		writeError(w, "Missing date", http.StatusBadRequest)
		return
	}
	date, err := a.parseDate(req.Date)
	if err != nil {
		writeError(w, "invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, planner.SuggestSchedule(date, req.Tasks))
}
