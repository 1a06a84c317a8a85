/*
handlers.go - HTTP API handlers for the scenario dashboard

PURPOSE:
  Exposes the curve generator and instrument engine via REST API.
  Handles HTTP request/response and JSON serialization, and delegates
  to the pure curve and instruments packages.

ENDPOINTS:
  Scenarios:
    GET    /api/scenarios               List saved scenarios
    POST   /api/scenarios               Save as a new scenario (fresh id)
    GET    /api/scenarios/{id}          Get one scenario
    PUT    /api/scenarios/{id}          Update a saved scenario
    DELETE /api/scenarios/{id}          Delete a saved scenario

  Analysis:
    GET    /api/scenarios/{id}/curve    Daily rate curve
    GET    /api/scenarios/{id}/market   Derived instruments
    GET    /api/scenarios/{id}/summary  Stats panel
    POST   /api/analyze                 Price an unsaved scenario
    GET    /api/compare?a={id}&b={id}   Monthly outright comparison

  Reference data:
    GET    /api/holidays                Current holiday calendar
    POST   /api/holidays/refresh        Re-resolve the calendar
    GET    /api/meetings                Current FOMC decision dates
    GET    /api/presets                 Built-in scenarios
    GET    /api/presets/template        Blank scenario on the current calendar
    POST   /api/presets/{id}/load       Store a preset under its own id

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Saved scenarios
  - Holidays: Calendar resolver (live, cached, or static)
  - Calendar: FOMC decision dates
  - results: Analysis results keyed by scenario content, flushed when
    the holiday calendar is refreshed

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, invalid scenario
  - 404: Unknown scenario or preset
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - presets.go: Preset handlers
  - websocket.go: Live recompute channel
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/fomc"
	"github.com/warp/stir-engine/holidays"
	"github.com/warp/stir-engine/instruments"
	"github.com/warp/stir-engine/scenario"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    scenario.Store
	Holidays *holidays.Resolver
	Calendar *fomc.Calendar

	results *cache.Cache
	logger  *zap.Logger
}

// DefaultCacheTTL is how long an analysis result is reused.
const DefaultCacheTTL = 15 * time.Minute

// NewHandler creates a new handler. A nil logger discards logs.
func NewHandler(store scenario.Store, resolver *holidays.Resolver, calendar *fomc.Calendar, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Holidays: resolver,
		Calendar: calendar,
		results:  cache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
		logger:   logger,
	}
}

// WithCacheTTL replaces the result cache. A zero ttl disables caching.
func (h *Handler) WithCacheTTL(ttl time.Duration) *Handler {
	if ttl <= 0 {
		h.results = nil
		return h
	}
	h.results = cache.New(ttl, 2*ttl)
	return h
}

// analyze prices s against the current holiday calendar. Results are
// shared between requests and must not be modified.
func (h *Handler) analyze(s curve.Scenario) instruments.Result {
	if h.results == nil {
		return h.compute(s)
	}

	key, err := json.Marshal(s)
	if err != nil {
		return h.compute(s)
	}
	if cached, ok := h.results.Get(string(key)); ok {
		return cached.(instruments.Result)
	}
	result := h.compute(s)
	h.results.SetDefault(string(key), result)
	return result
}

func (h *Handler) compute(s curve.Scenario) instruments.Result {
	hs, _ := h.Holidays.Current()
	return instruments.Analyze(s, hs)
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

// ListScenarios returns all saved scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.Store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to list scenarios", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

// GetScenario returns one scenario.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CreateScenario saves the body as a new scenario under a fresh id.
// Any id in the body is ignored.
// POST /api/scenarios
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	s.ID = scenario.NewID()

	if err := h.Store.Put(r.Context(), s); err != nil {
		h.writeStoreError(w, "Failed to save scenario", err)
		return
	}
	h.logger.Info("scenario saved", zap.String("id", s.ID), zap.String("name", s.Name))
	writeJSON(w, http.StatusCreated, s)
}

// UpdateScenario replaces a saved scenario. The path id wins over the body.
// PUT /api/scenarios/{id}
func (h *Handler) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.Get(ctx, id); err != nil {
		h.writeStoreError(w, "Failed to update scenario", err)
		return
	}

	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	s.ID = id

	if err := h.Store.Put(ctx, s); err != nil {
		h.writeStoreError(w, "Failed to update scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteScenario removes a saved scenario.
// DELETE /api/scenarios/{id}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, "Failed to delete scenario", err)
		return
	}
	h.logger.Info("scenario deleted", zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// =============================================================================
// ANALYSIS ENDPOINTS
// =============================================================================

// GetCurve returns the daily rate curve for a saved scenario.
// GET /api/scenarios/{id}/curve
func (h *Handler) GetCurve(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dailyRates": h.analyze(s).Rates})
}

// GetMarket returns the derived instruments for a saved scenario.
// GET /api/scenarios/{id}/market
func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, h.analyze(s).Market)
}

// GetSummary returns the stats panel for a saved scenario.
// GET /api/scenarios/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario", err)
		return
	}
	result := h.analyze(s)
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":    instruments.Summarize(s),
		"curveStats": toCurveStats(result.Rates),
	})
}

// Analyze prices a scenario that has not been saved.
// POST /api/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, err := scenario.Normalize(req.Scenario)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysis(s, h.analyze(s), req.IncludeRates))
}

// Compare lines up the monthly outrights of two saved scenarios.
// GET /api/compare?a={id}&b={id}
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idA, idB := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if idA == "" || idB == "" {
		writeError(w, http.StatusBadRequest, "Both a and b are required", nil)
		return
	}

	a, err := h.Store.Get(ctx, idA)
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario a", err)
		return
	}
	b, err := h.Store.Get(ctx, idB)
	if err != nil {
		h.writeStoreError(w, "Failed to get scenario b", err)
		return
	}

	writeJSON(w, http.StatusOK, CompareResponse{
		A:    instruments.Summarize(a),
		B:    instruments.Summarize(b),
		Rows: instruments.Compare(h.analyze(a).Market.Monthly.Outrights, h.analyze(b).Market.Monthly.Outrights),
	})
}

// =============================================================================
// REFERENCE DATA ENDPOINTS
// =============================================================================

// ListHolidays returns the calendar curves are currently built on.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	hs, origin := h.Holidays.Current()
	writeJSON(w, http.StatusOK, HolidaysResponse{Origin: origin, Holidays: hs})
}

// RefreshHolidays re-resolves the calendar and drops cached results. It
// always succeeds; the origin says whether the live source answered.
// POST /api/holidays/refresh
func (h *Handler) RefreshHolidays(w http.ResponseWriter, r *http.Request) {
	h.Holidays.Refresh(r.Context())
	if h.results != nil {
		h.results.Flush()
	}
	h.ListHolidays(w, r)
}

// ListMeetings returns the decision dates offered to scenario editors.
// GET /api/meetings
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	dates, origin := h.Calendar.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	writeJSON(w, http.StatusOK, MeetingsResponse{Origin: origin, Dates: out})
}

// ResetDatabase clears all scenarios and re-seeds the default.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := scenario.Seed(ctx, h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed default scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps domain errors to 404/400 and logs the rest.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case scenario.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case scenario.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// decodeScenario reads and normalizes a scenario body, writing the 400
// itself on failure.
func decodeScenario(w http.ResponseWriter, r *http.Request) (curve.Scenario, bool) {
	var s curve.Scenario
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return curve.Scenario{}, false
	}
	s, err := scenario.Normalize(s)
	if err != nil {
		var verr *scenario.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid scenario",
				Details: map[string]string{"field": verr.Field, "message": verr.Message},
			})
			return curve.Scenario{}, false
		}
		writeError(w, http.StatusBadRequest, "Invalid scenario", err)
		return curve.Scenario{}, false
	}
	return s, true
}
