package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS wraps an http.Handler with the cross-origin policy for the browser
// client. An empty origin list allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", RequestIDHeader},
		ExposedHeaders:   []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
