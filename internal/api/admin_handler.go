package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/testdeck/backend/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// listUserStats returns completion stats for every non-admin account.
// @Summary      User stats
// @Description  Per user: distinct tests completed, tests remaining, and every result with its test title.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.UserStats
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/users [get]
func (h *Handler) listUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.UserStats(r.Context())
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// deleteUser removes an account and all of its results.
// @Summary      Delete a user
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  service.DeleteReport
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /admin/users/{userID} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == claims(r).UserID() {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	rep, err := h.admin.DeleteUser(r.Context(), userID)
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// downloadReport renders the user stats as a spreadsheet.
// @Summary      User stats spreadsheet
// @Tags         Admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/report.xlsx [get]
func (h *Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.UserStats(r.Context())
	if h.handleError(w, r, err) {
		return
	}

	// rendered to a buffer first so a failure can still get a JSON error
	var buf bytes.Buffer
	if h.handleError(w, r, report.WriteUserStats(&buf, stats)) {
		return
	}

	name := "testdeck-users-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
