/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Persists contracts, generated schedules, fanned-out payment records, and
  synthesized journal entries. The calculation engine itself is pure; this
  package is where generation results land.

KEY TABLES:
  contracts:       Lease agreements and their economic assumptions
  schedules:       One generated schedule per contract+standard, stored as an
                   opaque JSON blob plus its present value
  payments:        Per-period payment records derived from a schedule
  journal_entries: Append-only ledger of synthesized postings

APPEND-ONLY JOURNAL:
  journal_entries has no UPDATE or DELETE path. Regenerating postings for a
  contract appends a fresh batch; history is preserved.

DECIMALS:
  Currency values are stored as TEXT in decimal string form, never as REAL,
  so round-tripping preserves cent-exact values.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/leases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - lease: Domain types persisted here
  - api: HTTP layer composing engine + store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meridian/lease-engine/engine"
	"github.com/meridian/lease-engine/lease"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store implements persistence for contracts, schedules, payments, and
// journal entries using SQLite.
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
	-- Contracts (lease agreements)
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lessor TEXT,
		amount TEXT NOT NULL,
		discount_rate TEXT NOT NULL,
		lease_term_years INTEGER NOT NULL,
		annual_payment TEXT NOT NULL,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Generated schedules (one per contract+standard)
	CREATE TABLE IF NOT EXISTS schedules (
		contract_id TEXT NOT NULL,
		standard TEXT NOT NULL,
		entries_json TEXT NOT NULL,
		present_value TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (contract_id, standard)
	);

	-- Per-period payment records fanned out from schedules
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		period INTEGER NOT NULL,
		amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		UNIQUE (contract_id, period)
	);

	CREATE INDEX IF NOT EXISTS idx_payments_contract
		ON payments(contract_id);
	CREATE INDEX IF NOT EXISTS idx_payments_status
		ON payments(status);

	-- Journal entries (append-only; regeneration appends a new batch)
	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		standard TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		description TEXT NOT NULL,
		debit_account TEXT NOT NULL,
		credit_account TEXT NOT NULL,
		amount TEXT NOT NULL,
		reference TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_entries_contract
		ON journal_entries(contract_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONTRACTS
// =============================================================================

// CreateContract persists a new contract.
func (s *Store) CreateContract(ctx context.Context, c lease.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO contracts
		(id, name, lessor, amount, discount_rate, lease_term_years, annual_payment, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Lessor,
		c.Amount.String(),
		c.DiscountRate.String(),
		c.LeaseTermYears,
		c.AnnualPayment.String(),
		c.StartDate.Format(time.RFC3339),
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

// GetContract loads a contract by ID.
func (s *Store) GetContract(ctx context.Context, id string) (lease.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, lessor, amount, discount_rate, lease_term_years, annual_payment, start_date, created_at
		FROM contracts WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lease.Contract{}, ErrNotFound
	}
	return c, err
}

// ListContracts returns all contracts, newest first.
func (s *Store) ListContracts(ctx context.Context) ([]lease.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, lessor, amount, discount_rate, lease_term_years, annual_payment, start_date, created_at
		FROM contracts ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []lease.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (lease.Contract, error) {
	var (
		c                     lease.Contract
		amount, rate, payment string
		startDate, createdAt  string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Lessor, &amount, &rate, &c.LeaseTermYears,
		&payment, &startDate, &createdAt); err != nil {
		return lease.Contract{}, err
	}

	var err error
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return lease.Contract{}, fmt.Errorf("corrupt amount %q: %w", amount, err)
	}
	if c.DiscountRate, err = decimal.NewFromString(rate); err != nil {
		return lease.Contract{}, fmt.Errorf("corrupt discount rate %q: %w", rate, err)
	}
	if c.AnnualPayment, err = decimal.NewFromString(payment); err != nil {
		return lease.Contract{}, fmt.Errorf("corrupt annual payment %q: %w", payment, err)
	}
	if c.StartDate, err = time.Parse(time.RFC3339, startDate); err != nil {
		return lease.Contract{}, fmt.Errorf("corrupt start date %q: %w", startDate, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return lease.Contract{}, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	return c, nil
}

// =============================================================================
// SCHEDULES
// =============================================================================

// SaveSchedule upserts the generated schedule for a contract+standard.
// Schedules are regenerated wholesale; the previous blob is replaced.
func (s *Store) SaveSchedule(ctx context.Context, sched lease.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entriesJSON, err := json.Marshal(sched.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode schedule entries: %w", err)
	}

	query := `
		INSERT INTO schedules (contract_id, standard, entries_json, present_value, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (contract_id, standard) DO UPDATE SET
			entries_json = excluded.entries_json,
			present_value = excluded.present_value,
			generated_at = excluded.generated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		sched.ContractID,
		string(sched.Standard),
		string(entriesJSON),
		sched.PresentValue.String(),
		sched.GeneratedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// GetSchedule loads the schedule for a contract+standard.
func (s *Store) GetSchedule(ctx context.Context, contractID string, std engine.Standard) (lease.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT contract_id, standard, entries_json, present_value, generated_at
		FROM schedules WHERE contract_id = ? AND standard = ?
	`
	var (
		sched                 lease.Schedule
		standard, entriesJSON string
		pv, generatedAt       string
	)
	err := s.db.QueryRowContext(ctx, query, contractID, string(std)).
		Scan(&sched.ContractID, &standard, &entriesJSON, &pv, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return lease.Schedule{}, ErrNotFound
	}
	if err != nil {
		return lease.Schedule{}, fmt.Errorf("failed to query schedule: %w", err)
	}

	sched.Standard = engine.Standard(standard)
	if err := json.Unmarshal([]byte(entriesJSON), &sched.Entries); err != nil {
		return lease.Schedule{}, fmt.Errorf("corrupt schedule entries: %w", err)
	}
	if sched.PresentValue, err = decimal.NewFromString(pv); err != nil {
		return lease.Schedule{}, fmt.Errorf("corrupt present value %q: %w", pv, err)
	}
	if sched.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return lease.Schedule{}, fmt.Errorf("corrupt generated_at %q: %w", generatedAt, err)
	}
	return sched, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// ReplacePayments atomically replaces the payment records for a contract.
// Regenerating a schedule regenerates its fan-out too.
func (s *Store) ReplacePayments(ctx context.Context, contractID string, payments []lease.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE contract_id = ?`, contractID); err != nil {
		return fmt.Errorf("failed to clear payments: %w", err)
	}

	query := `
		INSERT INTO payments (id, contract_id, period, amount, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, p := range payments {
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.ContractID, p.Period, p.Amount.String(),
			p.DueDate.Format(time.RFC3339), string(p.Status),
		); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}
	return tx.Commit()
}

// ListPayments returns a contract's payment records in period order.
func (s *Store) ListPayments(ctx context.Context, contractID string) ([]lease.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, contract_id, period, amount, due_date, status
		FROM payments WHERE contract_id = ? ORDER BY period ASC
	`
	rows, err := s.db.QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []lease.Payment
	for rows.Next() {
		var (
			p               lease.Payment
			amount, dueDate string
			status          string
		)
		if err := rows.Scan(&p.ID, &p.ContractID, &p.Period, &amount, &dueDate, &status); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt payment amount %q: %w", amount, err)
		}
		if p.DueDate, err = time.Parse(time.RFC3339, dueDate); err != nil {
			return nil, fmt.Errorf("corrupt due date %q: %w", dueDate, err)
		}
		p.Status = lease.PaymentStatus(status)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// JOURNAL ENTRIES (append-only)
// =============================================================================

// AppendJournalEntries adds a batch of postings atomically. There is no
// update or delete path; corrections are new postings.
func (s *Store) AppendJournalEntries(ctx context.Context, entries []lease.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO journal_entries
		(id, contract_id, standard, entry_date, description, debit_account, credit_account, amount, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			e.ID,
			e.ContractID,
			string(e.Standard),
			e.Posting.EntryDate.Format(time.RFC3339),
			e.Posting.Description,
			e.Posting.DebitAccount,
			e.Posting.CreditAccount,
			e.Posting.Amount.String(),
			e.Posting.Reference,
			e.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
	}
	return tx.Commit()
}

// ListJournalEntries returns a contract's postings in entry-date order.
func (s *Store) ListJournalEntries(ctx context.Context, contractID string) ([]lease.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, contract_id, standard, entry_date, description, debit_account, credit_account, amount, reference, created_at
		FROM journal_entries WHERE contract_id = ?
		ORDER BY entry_date ASC, created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []lease.JournalEntry
	for rows.Next() {
		var (
			e                    lease.JournalEntry
			standard             string
			entryDate, createdAt string
			amount               string
		)
		if err := rows.Scan(&e.ID, &e.ContractID, &standard, &entryDate, &e.Posting.Description,
			&e.Posting.DebitAccount, &e.Posting.CreditAccount, &amount, &e.Posting.Reference, &createdAt); err != nil {
			return nil, err
		}
		e.Standard = engine.Standard(standard)
		if e.Posting.EntryDate, err = time.Parse(time.RFC3339, entryDate); err != nil {
			return nil, fmt.Errorf("corrupt entry date %q: %w", entryDate, err)
		}
		if e.Posting.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt posting amount %q: %w", amount, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
