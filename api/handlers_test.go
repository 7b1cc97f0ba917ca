package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newTestServer builds a full router on an in-memory store with a fixed
// clock so projection responses are deterministic.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store)
	handler.now = func() fund.PlanDate { return fund.NewPlanDate(2024, time.April, 1) }

	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func seedProject(t *testing.T, server *httptest.Server, id string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects", CreateProjectRequest{
		ID: id, Name: "Test Building",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/projects/%s/fund", server.URL, id), FundParametersDTO{
		InitialCash:         1000,
		MonthlyContribution: 100,
		StartDate:           "2024-01-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// PROJECT ENDPOINTS
// =============================================================================

func TestProjects_CreateGetDelete(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects", CreateProjectRequest{
		ID: "p1", Name: "Elm Street 12", Address: "Elm St 12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var project ProjectDTO
	decode(t, resp, &project)
	assert.Equal(t, "Elm Street 12", project.Name)
	assert.Equal(t, "Elm St 12", project.Address)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/projects/p1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjects_Create_MissingFields_Rejected(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects", CreateProjectRequest{Name: "no id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// FUND PARAMETER ENDPOINTS
// =============================================================================

func TestFundParameters_NegativeAmount_Returns400(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPut, server.URL+"/api/projects/p1/fund", FundParametersDTO{
		InitialCash:         -5,
		MonthlyContribution: 100,
		StartDate:           "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decode(t, resp, &errResp)
	assert.Equal(t, "Invalid fund parameters", errResp.Error)
}

func TestFundParameters_RoundTrip(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodGet, server.URL+"/api/projects/p1/fund", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var params FundParametersDTO
	decode(t, resp, &params)
	assert.Equal(t, 1000.0, params.InitialCash)
	assert.Equal(t, 100.0, params.MonthlyContribution)
	assert.Equal(t, "2024-01-01", params.StartDate)
}

// =============================================================================
// TEMPLATE EXPANSION ENDPOINT
// =============================================================================

func TestExpandTemplate_PersistsOccurrencesWithInflatedCosts(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks/expand", ExpandTemplateRequest{
		Name:             "Facade painting",
		UltimateDate:     "2024-06-01",
		Recurring:        true,
		IntervalYears:    1,
		TotalYears:       3,
		Cost:             1000,
		InflationPercent: 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created []TaskDTO
	decode(t, resp, &created)
	require.Len(t, created, 3)
	assert.Equal(t, 1000.0, created[0].EstimatedCost)
	assert.Equal(t, 1100.0, created[1].EstimatedCost)
	assert.Equal(t, 1210.0, created[2].EstimatedCost)
	assert.Equal(t, "p1/Facade painting#0", created[0].ID)

	// Persisted, not just returned.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []TaskDTO
	decode(t, resp, &listed)
	assert.Len(t, listed, 3)
}

func TestExpandTemplate_InvalidInterval_Returns400(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks/expand", ExpandTemplateRequest{
		Name:          "Broken",
		UltimateDate:  "2024-06-01",
		Recurring:     true,
		IntervalYears: 0,
		TotalYears:    3,
		Cost:          1000,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// PROJECTION ENDPOINT
// =============================================================================

func TestGetProjection_EndToEnd(t *testing.T) {
	// GIVEN: fund start 2024-01-01, now fixed at 2024-04-01, 100/month,
	//        one task on 2024-07-01 costing 300 and one undated task
	// WHEN: requesting the projection
	// THEN: labels/balances/ledger/summary come back; the undated task
	//       leaves no trace

	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks", SaveTaskRequest{
		ID: "p1/work", Name: "work", WorkDate: "2024-07-01", EstimatedCost: 300,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks", SaveTaskRequest{
		ID: "p1/unscheduled", Name: "unscheduled", EstimatedCost: 9999,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1/projection", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projection ProjectionResponse
	decode(t, resp, &projection)

	// Seeded point at now, then one point per ledger entry.
	require.Len(t, projection.Labels, 2)
	require.Len(t, projection.Balances, 2)
	assert.Equal(t, "2024-04-01", projection.Labels[0])
	assert.Equal(t, 1300.0, projection.Balances[0]) // 1000 + 3 seeded months * 100
	assert.Equal(t, "2024-07-01", projection.Labels[1])
	assert.Equal(t, 1600.0, projection.Balances[1]) // + 6 accrued months * 100 - 300

	require.Len(t, projection.Ledger, 1)
	assert.Equal(t, "work", projection.Ledger[0].Name)
	assert.Equal(t, 300.0, projection.Ledger[0].Price)
	assert.Equal(t, 1900.0, projection.Ledger[0].BalanceBefore)
	assert.Equal(t, 1600.0, projection.Ledger[0].BalanceAfter)

	assert.Equal(t, 300.0, projection.Summary.TotalExpenses)
}

func TestGetProjection_GroupPrice_OverridesMemberEstimates(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/groups", OfferGroupDTO{
		ID: "g1", Name: "Roof offer", OfferPrice: floatPtr(400),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for i, cost := range []float64{200, 300} {
		resp = doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks", SaveTaskRequest{
			ID:            fmt.Sprintf("p1/t%d", i),
			Name:          fmt.Sprintf("t%d", i),
			WorkDate:      "2024-06-01",
			EstimatedCost: cost,
			GroupID:       "g1",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1/projection", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projection ProjectionResponse
	decode(t, resp, &projection)
	require.Len(t, projection.Ledger, 1)
	assert.Equal(t, "Roof offer", projection.Ledger[0].Name)
	assert.Equal(t, 400.0, projection.Ledger[0].Price)
}

func TestGetProjection_NoFundParameters_Returns404(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects", CreateProjectRequest{
		ID: "bare", Name: "No fund yet",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/bare/projection", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// GROUP ENDPOINTS
// =============================================================================

func TestDeleteGroup_MembersRevertToOwnEstimates(t *testing.T) {
	server := newTestServer(t)
	seedProject(t, server, "p1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/groups", OfferGroupDTO{
		ID: "g1", Name: "Offer", OfferPrice: floatPtr(50),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, server.URL+"/api/projects/p1/tasks", SaveTaskRequest{
		ID: "p1/a", Name: "a", WorkDate: "2024-06-01", EstimatedCost: 200, GroupID: "g1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/groups/g1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/p1/projection", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var projection ProjectionResponse
	decode(t, resp, &projection)
	require.Len(t, projection.Ledger, 1)
	assert.Equal(t, 200.0, projection.Ledger[0].Price)
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestScenarios_LoadAndProject(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/scenarios", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []ScenarioDTO
	decode(t, resp, &list)
	require.Len(t, list, 3)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load", LoadScenarioRequest{ID: "roof-offer-group"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/projects/demo-roof/projection", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var projection ProjectionResponse
	decode(t, resp, &projection)
	require.NotEmpty(t, projection.Ledger)
}

func TestScenarios_UnknownID_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load", LoadScenarioRequest{ID: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func floatPtr(f float64) *float64 { return &f }
