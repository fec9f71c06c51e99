package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"

	"github.com/testdeck/backend/internal/auth"
	"github.com/testdeck/backend/internal/id"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging writes one access log line per request and tags the response with
// a request id, reusing the caller's X-Request-ID when present.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = id.RequestID()
			}
			w.Header().Set("X-Request-ID", reqID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// requireAuth rejects requests without a valid bearer token and puts the
// token's claims on the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "expected Authorization: Bearer <token>")
			return
		}

		claims, err := h.auth.Authenticate(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		next(w, r.WithContext(auth.NewContext(r.Context(), claims)))
	}
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.FromContext(r.Context())
		if !claims.IsAdmin() {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

// claims returns the authenticated caller. Only valid behind requireAuth.
func claims(r *http.Request) *auth.Claims {
	c, _ := auth.FromContext(r.Context())
	return c
}
