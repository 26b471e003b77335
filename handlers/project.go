package handlers

import (
	"net/http"

	"clementus360/focusflow/middleware"
	"clementus360/focusflow/planner"
)

func (a *API) GetProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := a.Planner.ListProjects(r.Context())
	if err != nil {
		writePlannerError(w, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (a *API) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in planner.NewProject
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	project, err := a.Planner.CreateProject(r.Context(), in, userID)
	if err != nil {
		writePlannerError(w, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (a *API) ProjectStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Planner.ProjectStats(r.Context(), r.PathValue("id"))
	if err != nil {
		writePlannerError(w, "get project stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
