package api

import (
	"net/http"

	"github.com/testdeck/backend/internal/domain/progress"
	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
)

// ── Request / Response types ────────────────────────────────────────────────

// TestResponse is a catalog entry, with whether the caller already took it.
type TestResponse struct {
	testseries.TestSeries
	Attempted bool `json:"attempted"`
}

type ProgressResponse struct {
	progress.Summary
	RemainingTests int `json:"remainingTests"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listTests returns the catalog.
// @Summary      List tests
// @Description  Returns every test series, flagged when the caller has completed it at least once.
// @Tags         Tests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   TestResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /tests [get]
func (h *Handler) listTests(w http.ResponseWriter, r *http.Request) {
	userID := claims(r).UserID()

	series := h.catalog.TestSeries()
	resp := make([]TestResponse, 0, len(series))
	for _, t := range series {
		resp = append(resp, TestResponse{
			TestSeries: t,
			Attempted:  h.catalog.HasAttempted(userID, t.ID),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// getTest returns one test series.
// @Summary      Get a test
// @Tags         Tests
// @Produce      json
// @Security     BearerAuth
// @Param        testID  path      string  true  "Test ID"
// @Success      200     {object}  TestResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /tests/{testID} [get]
func (h *Handler) getTest(w http.ResponseWriter, r *http.Request) {
	testID := r.PathValue("testID")

	t, ok := h.catalog.Test(testID)
	if !ok {
		respondError(w, http.StatusNotFound, "test not found")
		return
	}

	respondJSON(w, http.StatusOK, TestResponse{
		TestSeries: t,
		Attempted:  h.catalog.HasAttempted(claims(r).UserID(), testID),
	})
}

// getProgress returns the caller's dashboard summary.
// @Summary      Progress summary
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProgressResponse
// @Router       /progress [get]
func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	summary := h.catalog.Progress(claims(r).UserID())
	respondJSON(w, http.StatusOK, ProgressResponse{
		Summary:        summary,
		RemainingTests: summary.Remaining(),
	})
}

// listResults returns the caller's results in submission order.
// @Summary      List my results
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  result.TestResult
// @Router       /results [get]
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	results := h.catalog.Results(claims(r).UserID())
	if results == nil {
		results = []result.TestResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

// resetData rebuilds the cache from scratch.
// @Summary      Reset cached data
// @Description  Drops the local snapshot and hydrates again from the record store and seed.
// @Tags         Data
// @Security     BearerAuth
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /data/reset [post]
func (h *Handler) resetData(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, r, h.catalog.Reset(r.Context())) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportData downloads the cached structure as JSON, answer keys and
// every user's results included, so it is admin only.
// @Summary      Export cached data
// @Tags         Data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /data/export [get]
func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Export()
	if h.handleError(w, r, err) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="testdeck-export.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
