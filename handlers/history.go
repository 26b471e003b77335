package handlers

import (
	"net/http"

	"clementus360/focusflow/types"
)

func (a *API) UndoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Planner.Undo(r.Context())
	if err != nil {
		writePlannerError(w, "undo", err)
		return
	}
	writeJSON(w, http.StatusOK, types.HistoryResponse{
		Undone:  res.Type,
		TaskID:  res.TaskID,
		Applied: res.Applied,
	})
}

func (a *API) RedoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Planner.Redo(r.Context())
	if err != nil {
		writePlannerError(w, "redo", err)
		return
	}
	writeJSON(w, http.StatusOK, types.HistoryResponse{
		Redone:  res.Type,
		TaskID:  res.TaskID,
		Applied: res.Applied,
	})
}
