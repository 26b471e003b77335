package middleware

import (
	"net/http"
	"slices"
)

// DevOrigins are always allowed alongside the configured frontend.
var DevOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// CORS allows the given origins. A request from any other origin gets no
// Access-Control-Allow-Origin header.
func CORS(origins ...string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins)+len(DevOrigins))
	for _, o := range append(origins, DevOrigins...) {
		if o != "" && !slices.Contains(allowed, o) {
			allowed = append(allowed, o)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			w.Header().Set("Access-Control-Max-Age", "86400")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
