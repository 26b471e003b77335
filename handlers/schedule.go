package handlers

import (
	"net/http"
)

func (a *API) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	date, err := a.parseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, "invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	schedule, err := a.Planner.DaySchedule(r.Context(), date)
	if err != nil {
		writePlannerError(w, "get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (a *API) GetScheduleRangeHandler(w http.ResponseWriter, r *http.Request) {
	start, err := a.requiredDateParam(r, "start_date")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := a.requiredDateParam(r, "end_date")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	schedules, err := a.Planner.RangeSchedule(r.Context(), start, end)
	if err != nil {
		writePlannerError(w, "get schedule range", err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}
