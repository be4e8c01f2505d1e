package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
)

type rateLimitBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// RateLimit rejects clients that exceed limit requests per window with a 429
// JSON envelope. Clients are keyed by IP, so chi's RealIP should run first.
// A non-positive limit disables the middleware.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(rateLimitBody{
				Success: false,
				Message: "Too many requests",
				Error:   "Please wait a moment before trying again.",
			})
		}),
	)
}
