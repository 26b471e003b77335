package routes

import (
	"net/http"

	"clementus360/focusflow/handlers"
)

// RegisterTaskRoutes registers all task-related routes
func RegisterTaskRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("GET /api/tasks", api.GetTasksHandler)
	mux.HandleFunc("GET /api/tasks/inbox", api.GetInboxHandler)
	mux.HandleFunc("GET /api/tasks/{id}", api.GetSingleTaskHandler)
	mux.HandleFunc("POST /api/tasks", api.CreateTaskHandler)
	mux.HandleFunc("PUT /api/tasks/{id}", api.UpdateTaskHandler)
	mux.HandleFunc("DELETE /api/tasks/{id}", api.DeleteTaskHandler)
	mux.HandleFunc("POST /api/tasks/{id}/complete", api.CompleteTaskHandler)
	mux.HandleFunc("POST /api/tasks/{id}/start", api.StartTaskHandler)
	mux.HandleFunc("POST /api/tasks/move", api.MoveTaskHandler)
	mux.HandleFunc("POST /api/tasks/link", api.LinkTasksHandler)
	mux.HandleFunc("DELETE /api/tasks/link", api.UnlinkTasksHandler)
	mux.HandleFunc("POST /api/tasks/{id}/subtasks/{subtaskId}/toggle", api.ToggleSubtaskHandler)
	mux.HandleFunc("POST /api/tasks/carry-over", api.CarryOverHandler)
}

func RegisterProjectRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("GET /api/projects", api.GetProjectsHandler)
	mux.HandleFunc("POST /api/projects", api.CreateProjectHandler)
	mux.HandleFunc("GET /api/projects/{id}/stats", api.ProjectStatsHandler)
}
