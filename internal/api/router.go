package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dtrask/sift/internal/api/handlers"
	"github.com/dtrask/sift/pkg/database"
	"github.com/dtrask/sift/pkg/logger"
)

// NewRouter creates and configures the HTTP router. The database may be
// nil when persistence is disabled.
func NewRouter(
	analyze *handlers.AnalyzeHandler,
	runs *handlers.RunsHandler,
	providers *handlers.ProvidersHandler,
	routing *handlers.RoutingHandler,
	movers *handlers.MoversHandler,
	db *database.DB,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(db)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Analysis endpoints
	api.HandleFunc("/analyze", analyze.Analyze).Methods("POST")
	api.HandleFunc("/runs", runs.List).Methods("GET")
	api.HandleFunc("/runs/{id}", runs.Get).Methods("GET")

	// Market data endpoints
	api.HandleFunc("/movers", movers.Get).Methods("GET")

	// Provider and routing endpoints
	api.HandleFunc("/providers/status", providers.Status).Methods("GET")
	api.HandleFunc("/routing", routing.Table).Methods("GET")
	api.HandleFunc("/routing/classify", routing.Classify).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"service": "sift-api",
		}

		if db != nil {
			health, _ := db.HealthCheck(r.Context())
			body["database"] = health
			if health != nil && !health.Healthy {
				body["status"] = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
