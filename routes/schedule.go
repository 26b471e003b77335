package routes

import (
	"net/http"

	"clementus360/focusflow/handlers"
)

func RegisterScheduleRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("GET /api/schedule/range", api.GetScheduleRangeHandler)
	mux.HandleFunc("GET /api/schedule/{date}", api.GetScheduleHandler)
}

func RegisterAIRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/ai/breakdown", api.BreakdownHandler)
	mux.HandleFunc("POST /api/ai/schedule-suggestions", api.ScheduleSuggestionsHandler)
}

func RegisterHistoryRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/undo", api.UndoHandler)
	mux.HandleFunc("POST /api/redo", api.RedoHandler)
}
