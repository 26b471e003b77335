package handlers

import (
	"net/http"
	"strconv"

	"clementus360/focusflow/config"
	"clementus360/focusflow/planner"
	"clementus360/focusflow/types"

	"cloud.google.com/go/civil"
)

func (a *API) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter planner.TaskFilter

	from, ok, err := a.dateParam(r, "date_from")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		filter.DateFrom = &from
	}
	to, ok, err := a.dateParam(r, "date_to")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		filter.DateTo = &to
	}

	filter.ProjectID = query.Get("project_id")
	filter.Status = planner.Status(query.Get("status"))

	if raw := query.Get("include_inbox"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, "include_inbox must be a boolean", http.StatusBadRequest)
			return
		}
		filter.ExcludeInbox = !include
	}

	tasks, err := a.Planner.ListTasks(r.Context(), filter)
	if err != nil {
		writePlannerError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) GetInboxHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Planner.Inbox(r.Context())
	if err != nil {
		writePlannerError(w, "list inbox", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) GetSingleTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := a.Planner.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writePlannerError(w, "get task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var in planner.NewTask
	if err := decodeJSON(r, &in); err != nil {
		config.Logger.Debug("Failed to decode task JSON: ", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := a.Planner.CreateTask(r.Context(), in)
	if err != nil {
		writePlannerError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (a *API) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var patch planner.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := a.Planner.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writePlannerError(w, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Planner.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writePlannerError(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := a.Planner.CompleteTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writePlannerError(w, "complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) StartTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := a.Planner.StartTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writePlannerError(w, "start task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) MoveTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req types.MoveTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TaskID == "" {
		writeError(w, "Missing task_id", http.StatusBadRequest)
		return
	}

	var date *civil.Date
	if req.TargetDate != nil {
		d, err := a.parseDate(*req.TargetDate)
		if err != nil {
			writeError(w, "invalid target_date: "+err.Error(), http.StatusBadRequest)
			return
		}
		date = &d
	}

	task, err := a.Planner.MoveTask(r.Context(), req.TaskID, date, req.TargetTimeBlock)
	if err != nil {
		writePlannerError(w, "move task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) LinkTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req types.LinkTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	parent, dependent, err := a.Planner.Link(r.Context(), req.ParentTaskID, req.DependentTaskID)
	if err != nil {
		writePlannerError(w, "link tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, types.LinkResponse{
		Status:    "linked",
		Parent:    parent.ID,
		Dependent: dependent.ID,
	})
}

func (a *API) UnlinkTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req types.LinkTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.Planner.Unlink(r.Context(), req.ParentTaskID, req.DependentTaskID); err != nil {
		writePlannerError(w, "unlink tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, types.LinkResponse{Status: "unlinked"})
}

func (a *API) ToggleSubtaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := a.Planner.ToggleSubtask(r.Context(), r.PathValue("id"), r.PathValue("subtaskId"))
	if err != nil {
		writePlannerError(w, "toggle subtask", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) CarryOverHandler(w http.ResponseWriter, r *http.Request) {
	from, err := a.requiredDateParam(r, "from_date")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := a.requiredDateParam(r, "to_date")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := a.Planner.CarryOver(r.Context(), from, to)
	if err != nil {
		writePlannerError(w, "carry over tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
