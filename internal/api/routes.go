// internal/api/routes.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Auth
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /auth/logout", h.requireAuth(h.logout))
	mux.HandleFunc("GET /auth/me", h.requireAuth(h.me))

	// Catalog
	mux.HandleFunc("GET /tests", h.requireAuth(h.listTests))
	mux.HandleFunc("GET /tests/{testID}", h.requireAuth(h.getTest))

	// Sessions
	mux.HandleFunc("POST /sessions", h.requireAuth(h.startSession))
	mux.HandleFunc("GET /sessions/current", h.requireAuth(h.currentSession))
	mux.HandleFunc("PUT /sessions/current/answers", h.requireAuth(h.selectAnswer))
	mux.HandleFunc("POST /sessions/current/navigate", h.requireAuth(h.navigate))
	mux.HandleFunc("POST /sessions/current/submit", h.requireAuth(h.submitSession))
	mux.HandleFunc("DELETE /sessions/current", h.requireAuth(h.abandonSession))
	mux.HandleFunc("GET /attempts/last", h.requireAuth(h.lastAttempt))

	// Progress
	mux.HandleFunc("GET /progress", h.requireAuth(h.getProgress))
	mux.HandleFunc("GET /results", h.requireAuth(h.listResults))

	// Admin
	mux.HandleFunc("POST /data/reset", h.requireAdmin(h.resetData))
	mux.HandleFunc("GET /data/export", h.requireAdmin(h.exportData))
	mux.HandleFunc("GET /admin/users", h.requireAdmin(h.listUserStats))
	mux.HandleFunc("DELETE /admin/users/{userID}", h.requireAdmin(h.deleteUser))
	mux.HandleFunc("GET /admin/report.xlsx", h.requireAdmin(h.downloadReport))
}
