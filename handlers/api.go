// Package handlers serves the planner over HTTP.
package handlers

import (
	"context"
	"net/http"
	"time"

	"clementus360/focusflow/planner"
	"clementus360/focusflow/types"
)

// Breakdowner splits a task into steps. Implementations never fail; they fall
// back to a canned plan instead.
type Breakdowner interface {
	Breakdown(ctx context.Context, req types.BreakdownRequest) types.BreakdownResponse
}

type API struct {
	Planner *planner.Planner
	AI      Breakdowner
	// Now resolves relative dates. Defaults to time.Now.
	Now func() time.Time
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Timestamp: a.now().UTC(),
	})
}
