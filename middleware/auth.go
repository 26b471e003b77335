package middleware

import (
	"context"
	"net/http"

	"clementus360/focusflow/config"
	"clementus360/focusflow/supabase"
)

type ctxKey struct{}

// UserIDFromContext returns the user id set by Auth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithUserID returns ctx carrying the given user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// Auth resolves the caller's user id and stores it in the request context.
// Unauthenticated requests get a 401. The health endpoint is always public.
func Auth(auth supabase.Authenticator, public ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range public {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, err := auth.UserID(r)
			if err != nil {
				config.Logger.Warn("Rejected request: ", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
