// Package apicors provides CORS middleware for API endpoints that use
// API key authentication instead of cookies.
//
// When using API key authentication:
//   - Credentials (cookies) are not needed, so AllowCredentials can be false
//   - Origins can be "*" (any origin) since there are no cookies to protect
//
// The capture page may be embedded in other sites or loaded from a
// different origin than the API, so the capture endpoints use this
// permissive configuration.
package apicors

import (
	"net/http"
)

// Middleware returns CORS middleware suitable for API key authenticated endpoints.
//
// This middleware:
//   - Allows any origin (Access-Control-Allow-Origin: *)
//   - Does not allow credentials (no cookies needed with API key auth)
//   - Allows common API methods and headers
//   - Handles preflight OPTIONS requests
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
