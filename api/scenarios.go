/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	planning data for testing and demos. Each scenario creates a project,
	fund parameters, task occurrences and offer groups that demonstrate
	specific engine behavior.

AVAILABLE SCENARIOS:

	small-association:  One building, a few dated tasks, no groups
	roof-offer-group:   Tasks bundled into a priced offer group
	recurring-painting: Expanded recurring facade painting with inflation

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create project + fund parameters
 3. Create tasks (directly or via template expansion) and groups

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "roof-offer-group"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - maintenance/recurrence.go: Expansion used by the recurring scenario
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/maintenance"
	"github.com/brick/reserve-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-association",
		Name:        "Small Association",
		Description: "One building with a handful of dated one-off tasks",
	},
	{
		ID:          "roof-offer-group",
		Name:        "Roof Offer Group",
		Description: "Roof works bundled into one priced offer group",
	},
	{
		ID:          "recurring-painting",
		Name:        "Recurring Painting",
		Description: "Facade painting every 5 years with cost inflation",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ID {
	case "small-association":
		err = h.loadSmallAssociationScenario(ctx)
	case "roof-offer-group":
		err = h.loadRoofOfferGroupScenario(ctx)
	case "recurring-painting":
		err = h.loadRecurringPaintingScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedProject(ctx context.Context, id, name string, params maintenance.FundParameters) error {
	if err := h.Store.SaveProject(ctx, sqlite.Project{ID: id, Name: name}); err != nil {
		return err
	}
	return h.Store.SaveFundParameters(ctx, id, params)
}

func (h *Handler) loadSmallAssociationScenario(ctx context.Context) error {
	const projectID = "demo-small"

	year := time.Now().Year()
	if err := h.seedProject(ctx, projectID, "Elm Street 12", maintenance.FundParameters{
		InitialCash:         fund.NewMoney(25000),
		MonthlyContribution: fund.NewMoney(800),
		StartDate:           fund.NewPlanDate(year, time.January, 1),
	}); err != nil {
		return err
	}

	tasks := []maintenance.TaskOccurrence{
		{
			ID:            "demo-small/gutter",
			Name:          "Gutter cleaning",
			Urgency:       maintenance.UrgencyNormal,
			WorkDate:      fund.NewPlanDate(year+1, time.April, 15),
			EstimatedCost: fund.NewMoney(1200),
		},
		{
			ID:            "demo-small/boiler",
			Name:          "Boiler service",
			Urgency:       maintenance.UrgencyHigh,
			WorkDate:      fund.NewPlanDate(year+1, time.September, 1),
			EstimatedCost: fund.NewMoney(950),
		},
		{
			// No work date yet: the projection must simply omit it.
			ID:            "demo-small/intercom",
			Name:          "Intercom replacement",
			Urgency:       maintenance.UrgencyLow,
			UltimateDate:  fund.NewPlanDate(year+3, time.December, 31),
			EstimatedCost: fund.NewMoney(4300),
		},
	}
	return h.Store.SaveTasks(ctx, projectID, tasks)
}

func (h *Handler) loadRoofOfferGroupScenario(ctx context.Context) error {
	const projectID = "demo-roof"

	year := time.Now().Year()
	if err := h.seedProject(ctx, projectID, "Harbor View 3", maintenance.FundParameters{
		InitialCash:         fund.NewMoney(120000),
		MonthlyContribution: fund.NewMoney(2500),
		StartDate:           fund.NewPlanDate(year, time.January, 1),
	}); err != nil {
		return err
	}

	offer := fund.NewMoney(68000)
	if err := h.Store.SaveGroup(ctx, projectID, maintenance.OfferGroup{
		ID:         "demo-roof/group-roof",
		Name:       "Roof renovation offer",
		OfferPrice: &offer,
	}); err != nil {
		return err
	}

	tasks := []maintenance.TaskOccurrence{
		{
			ID:            "demo-roof/tiles",
			Name:          "Replace roof tiles",
			Urgency:       maintenance.UrgencyHighest,
			WorkDate:      fund.NewPlanDate(year+1, time.June, 1),
			EstimatedCost: fund.NewMoney(52000),
			GroupID:       "demo-roof/group-roof",
		},
		{
			ID:            "demo-roof/insulation",
			Name:          "Roof insulation",
			Urgency:       maintenance.UrgencyHigh,
			WorkDate:      fund.NewPlanDate(year+1, time.June, 10),
			EstimatedCost: fund.NewMoney(21000),
			GroupID:       "demo-roof/group-roof",
		},
		{
			ID:            "demo-roof/chimney",
			Name:          "Chimney inspection",
			Urgency:       maintenance.UrgencyNormal,
			WorkDate:      fund.NewPlanDate(year+2, time.March, 20),
			EstimatedCost: fund.NewMoney(1800),
		},
	}
	return h.Store.SaveTasks(ctx, projectID, tasks)
}

func (h *Handler) loadRecurringPaintingScenario(ctx context.Context) error {
	const projectID = "demo-paint"

	year := time.Now().Year()
	if err := h.seedProject(ctx, projectID, "Garden Court 7", maintenance.FundParameters{
		InitialCash:         fund.NewMoney(60000),
		MonthlyContribution: fund.NewMoney(1500),
		StartDate:           fund.NewPlanDate(year, time.January, 1),
	}); err != nil {
		return err
	}

	occurrences, err := maintenance.Expand(maintenance.TaskTemplate{
		Name:             "Facade painting",
		Description:      "Repaint all street-facing facades",
		Urgency:          maintenance.UrgencyNormal,
		StartDate:        fund.NewPlanDate(year+1, time.May, 1),
		Recurring:        true,
		IntervalYears:    5,
		TotalYears:       20,
		Cost:             fund.NewMoney(32000),
		InflationPercent: 3,
		DurationDays:     21,
		OfferAccepted:    true,
	})
	if err != nil {
		return err
	}
	for i := range occurrences {
		occurrences[i].ID = projectID + "/" + occurrences[i].ID
	}
	return h.Store.SaveTasks(ctx, projectID, occurrences)
}
