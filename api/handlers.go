/*
handlers.go - HTTP API handlers for the reserve planning system

PURPOSE:
  Exposes the planning data and the projection engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Projects:
    GET    /api/projects                     List all projects
    POST   /api/projects                     Create project
    GET    /api/projects/{id}                Get project details
    DELETE /api/projects/{id}                Delete project and its data

  Fund:
    GET    /api/projects/{id}/fund           Get fund parameters
    PUT    /api/projects/{id}/fund           Save fund parameters

  Tasks:
    GET    /api/projects/{id}/tasks          List task occurrences
    POST   /api/projects/{id}/tasks          Create/update a task
    POST   /api/projects/{id}/tasks/expand   Expand a template and persist
    DELETE /api/tasks/{id}                   Delete a task

  Offer groups:
    GET    /api/projects/{id}/groups         List offer groups
    POST   /api/projects/{id}/groups         Create/update a group
    DELETE /api/groups/{id}                  Delete a group (detaches members)

  Projection:
    GET    /api/projects/{id}/projection     Simulated ledger + chart series

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario
    POST   /api/scenarios/reset              Clear all data

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (invalid templates, negative fund parameters)
  - 404: Resource not found
  - 500: Internal errors
  Undated tasks are NOT errors: the projection simply omits them.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/maintenance"
	"github.com/brick/reserve-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// now is injectable so projection tests are deterministic.
	now func() fund.PlanDate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		now:   fund.Today,
	}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	project := sqlite.Project{ID: req.ID, Name: req.Name, Address: req.Address}
	if err := h.Store.SaveProject(r.Context(), project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectDTO(project))
}

// DeleteProject removes a project and its planning data.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FUND PARAMETER HANDLERS
// =============================================================================

// GetFundParameters returns a project's fund parameters.
func (h *Handler) GetFundParameters(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	params, err := h.Store.GetFundParameters(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get fund parameters", err)
		return
	}
	if params == nil {
		writeError(w, http.StatusNotFound, "Fund parameters not set", nil)
		return
	}

	writeJSON(w, http.StatusOK, FundParametersDTO{
		InitialCash:         params.InitialCash.Float64(),
		MonthlyContribution: params.MonthlyContribution.Float64(),
		StartDate:           params.StartDate.String(),
	})
}

// SaveFundParameters stores a project's fund parameters. Negative amounts
// are rejected here, before they can ever reach a simulation.
func (h *Handler) SaveFundParameters(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FundParametersDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params := maintenance.FundParameters{
		InitialCash:         fund.NewMoney(req.InitialCash),
		MonthlyContribution: fund.NewMoney(req.MonthlyContribution),
		StartDate:           fund.ParsePlanDate(req.StartDate),
	}
	if err := fund.ValidateFundParameters(params.InitialCash, params.MonthlyContribution); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fund parameters", err)
		return
	}

	if err := h.Store.SaveFundParameters(r.Context(), id, params); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save fund parameters", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns a project's task occurrences in stored order.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tasks, err := h.Store.GetTasksByProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// SaveTask creates or updates a single task occurrence.
func (h *Handler) SaveTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	occ := req.toOccurrence()
	existing, err := h.Store.GetTasksByProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}

	// Appends go after the current tail; updates keep their position via upsert.
	if err := h.Store.SaveTask(r.Context(), id, len(existing), occ); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(occ))
}

// ExpandTemplate expands a recurrence template into occurrences and
// persists them. The template itself is consumed, never stored.
func (h *Handler) ExpandTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ExpandTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occurrences, err := maintenance.Expand(req.toTemplate())
	if err != nil {
		if fund.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid template", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Expansion failed", err)
		}
		return
	}

	// Prefix IDs with the project so two projects can expand templates
	// sharing a name.
	for i := range occurrences {
		occurrences[i].ID = fmt.Sprintf("%s/%s", id, occurrences[i].ID)
	}

	if err := h.Store.SaveTasks(r.Context(), id, occurrences); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist occurrences", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTOs(occurrences))
}

// DeleteTask removes a task occurrence.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteTask(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OFFER GROUP HANDLERS
// =============================================================================

// ListGroups returns a project's offer groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	groups, err := h.Store.GetGroupsByProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}

	dtos := make([]OfferGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toGroupDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveGroup creates or updates an offer group.
func (h *Handler) SaveGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req OfferGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	group := maintenance.OfferGroup{
		ID:           req.ID,
		Name:         req.Name,
		OfferPrice:   floatToMoneyPtr(req.OfferPrice),
		InvoicePrice: floatToMoneyPtr(req.InvoicePrice),
	}

	if err := h.Store.SaveGroup(r.Context(), id, group); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save group", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupDTO(group))
}

// DeleteGroup removes an offer group; member tasks fall back to
// individual pricing.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteGroup(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLER
// =============================================================================

// GetProjection loads a project's tasks, groups and fund parameters, runs
// the reserve simulation and returns the chart series + ledger.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	params, err := h.Store.GetFundParameters(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load fund parameters", err)
		return
	}
	if params == nil {
		writeError(w, http.StatusNotFound, "Fund parameters not set for project", nil)
		return
	}

	tasks, err := h.Store.GetTasksByProject(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load tasks", err)
		return
	}

	groups, err := h.Store.GetGroupsByProject(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load groups", err)
		return
	}

	now := h.now()
	result, err := maintenance.Simulate(*params, now, tasks, groups)
	if err != nil {
		if fund.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid fund parameters", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Simulation failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponse(fund.Project(result, now)))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
