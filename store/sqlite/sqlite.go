/*
Package sqlite provides SQLite-backed persistence for the planning data.

PURPOSE:
  Stores projects (buildings), their maintenance task occurrences, offer
  groups, and reserve-fund parameters. The projection engine itself is
  pure - this package is the CRUD collaborator that loads its inputs.

KEY TABLES:
  projects:        Building/project records
  fund_parameters: One row per project: initial cash, monthly contribution,
                   fund start date
  tasks:           Concrete task occurrences (expanded or hand-entered)
  offer_groups:    Priced bundles; membership lives on tasks.group_id

REPRESENTATION:
  Monetary columns are TEXT holding decimal strings, parsed through
  fund.ParseMoney so no float conversion ever touches money. Date columns
  are TEXT in YYYY-MM-DD; NULL/empty means "not scheduled", which parses
  to the zero PlanDate and is exactly what the simulator's skip rule
  keys on.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/reserve.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - maintenance package: Domain types persisted here
  - api package: Handlers loading simulation inputs from this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/maintenance"
)

// Store implements persistence for projects, tasks, groups and fund
// parameters using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Projects (buildings under a maintenance plan)
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		created_at TEXT NOT NULL
	);

	-- Reserve fund parameters, one row per project
	CREATE TABLE IF NOT EXISTS fund_parameters (
		project_id TEXT PRIMARY KEY,
		initial_cash TEXT NOT NULL,
		monthly_contribution TEXT NOT NULL,
		start_date TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Task occurrences (expanded from templates or hand-entered)
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		urgency INTEGER NOT NULL DEFAULT 3,
		ultimate_date TEXT,
		start_date TEXT,
		end_date TEXT,
		work_date TEXT,
		estimated_cost TEXT NOT NULL,
		offer_price TEXT,
		invoice_price TEXT,
		offer_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		group_id TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project
		ON tasks(project_id, position);
	CREATE INDEX IF NOT EXISTS idx_tasks_group
		ON tasks(group_id) WHERE group_id IS NOT NULL;

	-- Offer groups (priced bundles; membership lives on tasks.group_id)
	CREATE TABLE IF NOT EXISTS offer_groups (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		offer_price TEXT,
		invoice_price TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_offer_groups_project
		ON offer_groups(project_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROJECT STORE
// =============================================================================

// Project represents a building/project record.
type Project struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}

// SaveProject inserts or updates a project.
func (s *Store) SaveProject(ctx context.Context, p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO projects (id, name, address, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Address,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetProject retrieves a project by ID. Returns nil when not found.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Project
	var address sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, address, created_at FROM projects WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &address, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Address = address.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// ListProjects returns all projects.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, created_at FROM projects ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var address sql.NullString
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &address, &createdAt); err != nil {
			return nil, err
		}
		p.Address = address.String
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project and its planning data.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM tasks WHERE project_id = ?",
		"DELETE FROM offer_groups WHERE project_id = ?",
		"DELETE FROM fund_parameters WHERE project_id = ?",
		"DELETE FROM projects WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// FUND PARAMETERS STORE
// =============================================================================

// SaveFundParameters inserts or updates a project's fund parameters.
func (s *Store) SaveFundParameters(ctx context.Context, projectID string, p maintenance.FundParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO fund_parameters (project_id, initial_cash, monthly_contribution, start_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			initial_cash = excluded.initial_cash,
			monthly_contribution = excluded.monthly_contribution,
			start_date = excluded.start_date,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		projectID,
		p.InitialCash.Value.String(),
		p.MonthlyContribution.Value.String(),
		p.StartDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetFundParameters retrieves a project's fund parameters. Returns nil
// when none were saved yet.
func (s *Store) GetFundParameters(ctx context.Context, projectID string) (*maintenance.FundParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var initialCash, monthly, startDate string
	err := s.db.QueryRowContext(ctx,
		"SELECT initial_cash, monthly_contribution, start_date FROM fund_parameters WHERE project_id = ?",
		projectID,
	).Scan(&initialCash, &monthly, &startDate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &maintenance.FundParameters{
		InitialCash:         fund.ParseMoney(initialCash),
		MonthlyContribution: fund.ParseMoney(monthly),
		StartDate:           fund.ParsePlanDate(startDate),
	}, nil
}

// =============================================================================
// TASK STORE
// =============================================================================

// SaveTask inserts or updates a task occurrence at the given position.
func (s *Store) SaveTask(ctx context.Context, projectID string, position int, t maintenance.TaskOccurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveTask(ctx, s.db, projectID, position, t)
}

// SaveTasks inserts or updates a batch of task occurrences atomically,
// assigning positions in slice order after the project's current maximum.
// Used when persisting an expansion.
func (s *Store) SaveTasks(ctx context.Context, projectID string, tasks []maintenance.TaskOccurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var max sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		"SELECT MAX(position) FROM tasks WHERE project_id = ?", projectID,
	).Scan(&max); err != nil {
		return err
	}
	next := int(max.Int64) + 1

	for i, t := range tasks {
		if err := s.saveTask(ctx, tx, projectID, next+i, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) saveTask(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, projectID string, position int, t maintenance.TaskOccurrence) error {
	query := `
		INSERT INTO tasks
		(id, project_id, name, description, urgency, ultimate_date, start_date, end_date,
		 work_date, estimated_cost, offer_price, invoice_price, offer_accepted, group_id,
		 position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			urgency = excluded.urgency,
			ultimate_date = excluded.ultimate_date,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			work_date = excluded.work_date,
			estimated_cost = excluded.estimated_cost,
			offer_price = excluded.offer_price,
			invoice_price = excluded.invoice_price,
			offer_accepted = excluded.offer_accepted,
			group_id = excluded.group_id
	`

	_, err := db.ExecContext(ctx, query,
		t.ID,
		projectID,
		t.Name,
		t.Description,
		int(t.Urgency),
		nullString(t.UltimateDate.String()),
		nullString(t.StartDate.String()),
		nullString(t.EndDate.String()),
		nullString(t.WorkDate.String()),
		t.EstimatedCost.Value.String(),
		nullMoney(t.OfferPrice),
		nullMoney(t.InvoicePrice),
		t.OfferAccepted,
		nullString(t.GroupID),
		position,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// GetTasksByProject returns a project's task occurrences in the order
// they were supplied. That order is load-bearing: the simulator's
// ungrouped processing and group lead-member selection depend on it.
func (s *Store) GetTasksByProject(ctx context.Context, projectID string) ([]maintenance.TaskOccurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, description, urgency, ultimate_date, start_date, end_date,
		       work_date, estimated_cost, offer_price, invoice_price, offer_accepted, group_id
		FROM tasks
		WHERE project_id = ?
		ORDER BY position ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []maintenance.TaskOccurrence
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(rows *sql.Rows) (maintenance.TaskOccurrence, error) {
	var (
		t             maintenance.TaskOccurrence
		description   sql.NullString
		urgency       int
		ultimateDate  sql.NullString
		startDate     sql.NullString
		endDate       sql.NullString
		workDate      sql.NullString
		estimatedCost string
		offerPrice    sql.NullString
		invoicePrice  sql.NullString
		groupID       sql.NullString
	)

	err := rows.Scan(
		&t.ID, &t.Name, &description, &urgency, &ultimateDate, &startDate, &endDate,
		&workDate, &estimatedCost, &offerPrice, &invoicePrice, &t.OfferAccepted, &groupID,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Description = description.String
	t.Urgency = maintenance.Urgency(urgency)
	t.UltimateDate = fund.ParsePlanDate(ultimateDate.String)
	t.StartDate = fund.ParsePlanDate(startDate.String)
	t.EndDate = fund.ParsePlanDate(endDate.String)
	t.WorkDate = fund.ParsePlanDate(workDate.String)
	t.EstimatedCost = fund.ParseMoney(estimatedCost)
	t.OfferPrice = scanMoney(offerPrice)
	t.InvoicePrice = scanMoney(invoicePrice)
	t.GroupID = groupID.String

	return t, nil
}

// DeleteTask removes a task occurrence.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	return err
}

// =============================================================================
// OFFER GROUP STORE
// =============================================================================

// SaveGroup inserts or updates an offer group.
func (s *Store) SaveGroup(ctx context.Context, projectID string, g maintenance.OfferGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO offer_groups (id, project_id, name, offer_price, invoice_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			offer_price = excluded.offer_price,
			invoice_price = excluded.invoice_price
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, projectID, g.Name,
		nullMoney(g.OfferPrice),
		nullMoney(g.InvoicePrice),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetGroupsByProject returns a project's offer groups.
func (s *Store) GetGroupsByProject(ctx context.Context, projectID string) ([]maintenance.OfferGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, offer_price, invoice_price FROM offer_groups WHERE project_id = ? ORDER BY created_at ASC",
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []maintenance.OfferGroup
	for rows.Next() {
		var g maintenance.OfferGroup
		var offerPrice, invoicePrice sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &offerPrice, &invoicePrice); err != nil {
			return nil, err
		}
		g.OfferPrice = scanMoney(offerPrice)
		g.InvoicePrice = scanMoney(invoicePrice)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteGroup removes an offer group and detaches its members.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET group_id = NULL WHERE group_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM offer_groups WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"tasks", "offer_groups", "fund_parameters", "projects"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullMoney(m *fund.Money) sql.NullString {
	if m == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: m.Value.String(), Valid: true}
}

func scanMoney(s sql.NullString) *fund.Money {
	if !s.Valid || s.String == "" {
		return nil
	}
	m := fund.ParseMoney(s.String)
	return &m
}
