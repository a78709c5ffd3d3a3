// ABOUTME: Panic recovery middleware so one bad request cannot kill the process
// ABOUTME: Logs the panic and returns a JSON 500 to the client

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/djmistretta15/Nnemo/models"
)

// Recover converts handler panics into JSON 500 responses using the same
// error shape the API handlers write.
func Recover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: "Internal server error",
					Code:  http.StatusInternalServerError,
				})
			}
		}()
		next(w, r)
	}
}
