package routes

import (
	"net/http"

	"clementus360/focusflow/handlers"
)

// RegisterAllRoutes registers all application routes
func RegisterAllRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("GET /api/health", api.HealthHandler)
	RegisterTaskRoutes(mux, api)
	RegisterProjectRoutes(mux, api)
	RegisterScheduleRoutes(mux, api)
	RegisterAIRoutes(mux, api)
	RegisterHistoryRoutes(mux, api)
}
