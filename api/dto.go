/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY ON THE WIRE:
  All monetary fields are numbers already rounded to two fractional
  digits (fund.Money.Float64). The UI treats them as display-ready.
  Dates are YYYY-MM-DD strings; an empty string means "not scheduled".

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - fund/projection.go: Projection shape serialized by ProjectionResponse
*/
package api

import (
	"time"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/maintenance"
	"github.com/brick/reserve-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProjectDTO represents a building/project in API responses.
type ProjectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateProjectRequest is the request to create a project.
type CreateProjectRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// FundParametersDTO carries a project's reserve-fund inputs.
type FundParametersDTO struct {
	InitialCash         float64 `json:"initial_cash"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	StartDate           string  `json:"start_date"`
}

// TaskDTO represents a task occurrence in API responses.
type TaskDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Urgency       int      `json:"urgency"`
	UltimateDate  string   `json:"ultimate_date,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	WorkDate      string   `json:"work_date,omitempty"`
	EstimatedCost float64  `json:"estimated_cost"`
	OfferPrice    *float64 `json:"offer_price,omitempty"`
	InvoicePrice  *float64 `json:"invoice_price,omitempty"`
	OfferAccepted bool     `json:"offer_accepted"`
	GroupID       string   `json:"group_id,omitempty"`
}

// SaveTaskRequest is the request to create or update a task occurrence.
type SaveTaskRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Urgency       int      `json:"urgency"`
	UltimateDate  string   `json:"ultimate_date,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	WorkDate      string   `json:"work_date,omitempty"`
	EstimatedCost float64  `json:"estimated_cost"`
	OfferPrice    *float64 `json:"offer_price,omitempty"`
	InvoicePrice  *float64 `json:"invoice_price,omitempty"`
	OfferAccepted bool     `json:"offer_accepted"`
	GroupID       string   `json:"group_id,omitempty"`
}

// ExpandTemplateRequest is a recurrence template to expand and persist.
type ExpandTemplateRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	Urgency          int     `json:"urgency"`
	StartDate        string  `json:"start_date,omitempty"`
	UltimateDate     string  `json:"ultimate_date,omitempty"`
	Recurring        bool    `json:"recurring"`
	IntervalYears    int     `json:"interval_years"`
	TotalYears       int     `json:"total_years"`
	Cost             float64 `json:"cost"`
	InflationPercent float64 `json:"inflation_percent"`
	DurationDays     int     `json:"duration_days"`
	RequiresOffer    bool    `json:"requires_offer"`
	OfferAccepted    bool    `json:"offer_accepted"`
}

// OfferGroupDTO represents an offer group in API responses.
type OfferGroupDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OfferPrice   *float64 `json:"offer_price,omitempty"`
	InvoicePrice *float64 `json:"invoice_price,omitempty"`
}

// LedgerEntryDTO is one row of the simulated reserve ledger.
type LedgerEntryDTO struct {
	Name          string  `json:"name"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	BalanceBefore float64 `json:"balance_before"`
	BalanceAfter  float64 `json:"balance_after"`
}

// SummaryDTO aggregates income and expenses across the simulation.
type SummaryDTO struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
}

// ProjectionResponse is the chart + ledger payload the planning UI renders.
type ProjectionResponse struct {
	Labels   []string         `json:"labels"`
	Balances []float64        `json:"balances"`
	Ledger   []LedgerEntryDTO `json:"ledger"`
	Summary  SummaryDTO       `json:"summary"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProjectDTO(p sqlite.Project) ProjectDTO {
	return ProjectDTO{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toTaskDTO(t maintenance.TaskOccurrence) TaskDTO {
	return TaskDTO{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Urgency:       int(t.Urgency),
		UltimateDate:  t.UltimateDate.String(),
		StartDate:     t.StartDate.String(),
		EndDate:       t.EndDate.String(),
		WorkDate:      t.WorkDate.String(),
		EstimatedCost: t.EstimatedCost.Float64(),
		OfferPrice:    moneyPtrToFloat(t.OfferPrice),
		InvoicePrice:  moneyPtrToFloat(t.InvoicePrice),
		OfferAccepted: t.OfferAccepted,
		GroupID:       t.GroupID,
	}
}

func toTaskDTOs(tasks []maintenance.TaskOccurrence) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toGroupDTO(g maintenance.OfferGroup) OfferGroupDTO {
	return OfferGroupDTO{
		ID:           g.ID,
		Name:         g.Name,
		OfferPrice:   moneyPtrToFloat(g.OfferPrice),
		InvoicePrice: moneyPtrToFloat(g.InvoicePrice),
	}
}

func toProjectionResponse(p *fund.Projection) ProjectionResponse {
	balances := make([]float64, len(p.Balances))
	for i, b := range p.Balances {
		balances[i] = b.Float64()
	}

	ledger := make([]LedgerEntryDTO, len(p.Ledger))
	for i, e := range p.Ledger {
		ledger[i] = LedgerEntryDTO{
			Name:          e.Name,
			Date:          e.Date.String(),
			Price:         e.Price.Float64(),
			BalanceBefore: e.BalanceBefore.Float64(),
			BalanceAfter:  e.BalanceAfter.Float64(),
		}
	}

	return ProjectionResponse{
		Labels:   p.Labels,
		Balances: balances,
		Ledger:   ledger,
		Summary: SummaryDTO{
			TotalIncome:   p.TotalIncome.Float64(),
			TotalExpenses: p.TotalExpenses.Float64(),
		},
	}
}

func (r SaveTaskRequest) toOccurrence() maintenance.TaskOccurrence {
	return maintenance.TaskOccurrence{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Urgency:       maintenance.Urgency(r.Urgency),
		UltimateDate:  fund.ParsePlanDate(r.UltimateDate),
		StartDate:     fund.ParsePlanDate(r.StartDate),
		EndDate:       fund.ParsePlanDate(r.EndDate),
		WorkDate:      fund.ParsePlanDate(r.WorkDate),
		EstimatedCost: fund.NewMoney(r.EstimatedCost),
		OfferPrice:    floatToMoneyPtr(r.OfferPrice),
		InvoicePrice:  floatToMoneyPtr(r.InvoicePrice),
		OfferAccepted: r.OfferAccepted,
		GroupID:       r.GroupID,
	}
}

func (r ExpandTemplateRequest) toTemplate() maintenance.TaskTemplate {
	return maintenance.TaskTemplate{
		Name:             r.Name,
		Description:      r.Description,
		Urgency:          maintenance.Urgency(r.Urgency),
		StartDate:        fund.ParsePlanDate(r.StartDate),
		UltimateDate:     fund.ParsePlanDate(r.UltimateDate),
		Recurring:        r.Recurring,
		IntervalYears:    r.IntervalYears,
		TotalYears:       r.TotalYears,
		Cost:             fund.NewMoney(r.Cost),
		InflationPercent: r.InflationPercent,
		DurationDays:     r.DurationDays,
		RequiresOffer:    r.RequiresOffer,
		OfferAccepted:    r.OfferAccepted,
	}
}

func moneyPtrToFloat(m *fund.Money) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float64()
	return &f
}

func floatToMoneyPtr(f *float64) *fund.Money {
	if f == nil {
		return nil
	}
	m := fund.NewMoney(*f)
	return &m
}
