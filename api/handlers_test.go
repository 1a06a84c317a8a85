/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Scenario CRUD and error mapping
- Curve, market, summary and analyze endpoints
- Scenario comparison
- Reference data (holidays, meetings)
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/fomc"
	"github.com/warp/stir-engine/holidays"
	"github.com/warp/stir-engine/scenario"
	"github.com/warp/stir-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testServer struct {
	store  *memory.Memory
	router http.Handler
}

// newTestServer wires an offline handler over a seeded memory store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	require.NoError(t, scenario.Seed(context.Background(), store))

	h := NewHandler(
		store,
		holidays.NewResolver(nil, store, []int{2026, 2027}, nil),
		fomc.NewCalendar("", time.Second, nil),
		nil,
	)
	return &testServer{store: store, router: NewRouter(h, RouterConfig{})}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func hikeScenario() curve.Scenario {
	return curve.Scenario{
		Name:     "One hike",
		BaseSOFR: 4.30,
		Meetings: []curve.Meeting{{Date: curve.MustParseDate("2026-01-28"), HikeBps: 25}},
	}
}

// =============================================================================
// SCENARIO CRUD
// =============================================================================

func TestListScenarios_Seeded(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/scenarios", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string][]curve.Scenario](t, rec)
	require.Len(t, got["scenarios"], 1)
	assert.Equal(t, scenario.DefaultID, got["scenarios"][0].ID)
}

func TestCreateScenario_AssignsFreshID(t *testing.T) {
	srv := newTestServer(t)
	body := hikeScenario()
	body.ID = "client-chosen"

	rec := srv.do(t, http.MethodPost, "/api/scenarios", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[curve.Scenario](t, rec)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.Len(t, created.ID, 36, "uuid")
	assert.Equal(t, "One hike", created.Name)

	stored, err := srv.store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
}

func TestCreateScenario_SortsMeetings(t *testing.T) {
	srv := newTestServer(t)
	body := hikeScenario()
	body.Meetings = append(body.Meetings, curve.Meeting{Date: curve.MustParseDate("2026-01-01"), HikeBps: -10})

	rec := srv.do(t, http.MethodPost, "/api/scenarios", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[curve.Scenario](t, rec)
	assert.Equal(t, curve.MustParseDate("2026-01-01"), created.Meetings[0].Date)
}

func TestCreateScenario_BadJSON(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/scenarios", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode[ErrorResponse](t, rec).Error)
}

func TestUpdateScenario(t *testing.T) {
	srv := newTestServer(t)
	body := scenario.Default()
	body.Name = "Renamed"
	body.ID = "ignored"

	rec := srv.do(t, http.MethodPut, "/api/scenarios/default", body)

	require.Equal(t, http.StatusOK, rec.Code)
	got, err := srv.store.Get(context.Background(), scenario.DefaultID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	_, err = srv.store.Get(context.Background(), "ignored")
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestUpdateScenario_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/scenarios/missing", hikeScenario())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteScenario(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodDelete, "/api/scenarios/default", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/scenarios/default", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/scenarios/default", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ANALYSIS
// =============================================================================

func TestGetCurve(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/scenarios/default/curve", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string][]curve.DailyRate](t, rec)
	rates := got["dailyRates"]
	require.Len(t, rates, 912)
	assert.Equal(t, curve.WindowStart, rates[0].Date)
	assert.Equal(t, curve.DayHoliday, rates[0].DayType)
}

func TestGetMarket(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/scenarios/default/market", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Monthly struct {
			Outrights []map[string]any `json:"outrights"`
			Spreads   []map[string]any `json:"spreads"`
		} `json:"monthly"`
		Quarterly struct {
			Condors []map[string]any `json:"condors"`
		} `json:"quarterly"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Monthly.Outrights, 24)
	assert.Equal(t, "JAN26", got.Monthly.Outrights[0]["id"])
	assert.Equal(t, "JAN26/FEB26", got.Monthly.Spreads[0]["name"])
	assert.Equal(t, "Condor", got.Quarterly.Condors[0]["name"])
}

func TestGetMarket_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/scenarios/missing/market", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Failed to get scenario", decode[ErrorResponse](t, rec).Error)
}

func TestGetSummary(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/scenarios/default/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Summary    map[string]any `json:"summary"`
		CurveStats CurveStatsDTO  `json:"curveStats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Base Case 2026-2027", got.Summary["name"])
	assert.Equal(t, 912, got.CurveStats.Days)
	assert.Equal(t, 4.30, got.CurveStats.MinRate)
	assert.Equal(t, 4.55, got.CurveStats.MaxRate, "year-end turn")
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/analyze", AnalyzeRequest{Scenario: hikeScenario(), IncludeRates: true})

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Summary    map[string]any    `json:"summary"`
		DailyRates []curve.DailyRate `json:"dailyRates"`
		CurveStats CurveStatsDTO     `json:"curveStats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 25.0, got.Summary["netHikeBps"])
	assert.Len(t, got.DailyRates, 912)
	assert.Equal(t, 4.55, got.CurveStats.EndRate)
}

func TestAnalyze_OmitsRatesByDefault(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/analyze", AnalyzeRequest{Scenario: hikeScenario()})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"dailyRates"`)
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t)
	created := decode[curve.Scenario](t, srv.do(t, http.MethodPost, "/api/scenarios", hikeScenario()))

	rec := srv.do(t, http.MethodGet, "/api/compare?a="+created.ID+"&b=default", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Rows []struct {
			ID    string  `json:"id"`
			Delta float64 `json:"delta"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Rows, 24)
	assert.Equal(t, "FEB26", got.Rows[1].ID)
	assert.Less(t, got.Rows[1].Delta, 0.0, "the hiking scenario prices lower")
}

func TestCompare_MissingParams(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/compare?a=default", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestListHolidays_OfflineFallback(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/holidays/refresh", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[HolidaysResponse](t, rec)
	assert.Equal(t, holidays.OriginFallback, got.Origin)
	assert.Equal(t, curve.FallbackHolidays(), got.Holidays)
}

func TestListMeetings(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/meetings", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[MeetingsResponse](t, rec)
	assert.Equal(t, fomc.OriginStatic, got.Origin)
	require.Len(t, got.Dates, 16)
	assert.Equal(t, "2026-01-28", got.Dates[0])
}

func TestResetDatabase_Reseeds(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/scenarios", hikeScenario())

	rec := srv.do(t, http.MethodPost, "/api/reset", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	all, err := srv.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, scenario.DefaultID, all[0].ID)
}

// =============================================================================
// MIDDLEWARE AND CACHING
// =============================================================================

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t)
	h := NewHandler(srv.store, holidays.NewResolver(nil, nil, nil, nil), fomc.NewCalendar("", time.Second, nil), nil)
	router := NewRouter(h, RouterConfig{RateLimit: 0.001, RateBurst: 2})

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes[i] = rec.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAnalyze_ReusesCachedResult(t *testing.T) {
	h := NewHandler(memory.New(), holidays.NewResolver(nil, nil, nil, nil), fomc.NewCalendar("", time.Second, nil), nil)
	s := hikeScenario()

	first := h.analyze(s)
	second := h.analyze(s)
	require.NotEmpty(t, first.Market.Monthly.Outrights)
	assert.Same(t, first.Market.Monthly.Outrights[0], second.Market.Monthly.Outrights[0])

	s.Meetings[0].HikeBps = 50
	third := h.analyze(s)
	assert.NotSame(t, first.Market.Monthly.Outrights[0], third.Market.Monthly.Outrights[0])
}

func TestAnalyze_CacheDisabled(t *testing.T) {
	h := NewHandler(memory.New(), holidays.NewResolver(nil, nil, nil, nil), fomc.NewCalendar("", time.Second, nil), nil).
		WithCacheTTL(0)
	s := hikeScenario()

	first := h.analyze(s)
	second := h.analyze(s)

	assert.NotSame(t, first.Market.Monthly.Outrights[0], second.Market.Monthly.Outrights[0])
	assert.Equal(t, first.Market.Monthly.Outrights[0].Price, second.Market.Monthly.Outrights[0].Price)
}
