// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists one row per research run in a local SQLite
// database. The ledger is an audit trail of reports and fees, not a
// cache: search results are never stored outside the report they
// produced.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

const dbFile = "runs.db"

// Store manages the run ledger SQLite database.
type Store struct {
	db        *sql.DB
	ledgerDir string
	maxListed int
}

// NewStore opens or creates the ledger database at ledgerDir/runs.db,
// creating the schema if it does not exist.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LedgerDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LedgerDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxListed := cfg.MaxListed
	if maxListed <= 0 {
		maxListed = 50
	}

	s := &Store{db: db, ledgerDir: cfg.LedgerDir, maxListed: maxListed}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			workflow TEXT NOT NULL,
			query_type TEXT,
			sources_consulted INTEGER,
			successful_sources INTEGER,
			findings INTEGER,
			urls_discovered INTEGER,
			actor_fee REAL,
			success INTEGER,
			timestamp TEXT NOT NULL,
			report TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one run row and returns its generated id. findingCount
// is the raw finding count of the workflow result, which the report does
// not carry directly.
func (s *Store) Record(ctx context.Context, rep types.Report, findingCount int) (string, error) {
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, query, workflow, query_type, sources_consulted,
			successful_sources, findings, urls_discovered, actor_fee, success,
			timestamp, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rep.Query, string(rep.Workflow), string(rep.QueryType),
		rep.SourceCount, rep.SuccessfulSources, findingCount,
		len(rep.URLsDiscovered), rep.ActorFee, rep.Success,
		rep.Timestamp, string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Run is one ledger row, without the full report payload.
type Run struct {
	ID                string  `json:"id" yaml:"id"`
	Query             string  `json:"query" yaml:"query"`
	Workflow          string  `json:"workflow" yaml:"workflow"`
	QueryType         string  `json:"query_type" yaml:"query_type"`
	SourcesConsulted  int     `json:"sources_consulted" yaml:"sources_consulted"`
	SuccessfulSources int     `json:"successful_sources" yaml:"successful_sources"`
	Findings          int     `json:"findings" yaml:"findings"`
	URLsDiscovered    int     `json:"urls_discovered" yaml:"urls_discovered"`
	ActorFee          float64 `json:"actor_fee" yaml:"actor_fee"`
	Success           bool    `json:"success" yaml:"success"`
	Timestamp         string  `json:"timestamp" yaml:"timestamp"`
}

// List returns the most recent runs, newest first, capped at the
// configured listing limit.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, workflow, query_type, sources_consulted,
			successful_sources, findings, urls_discovered, actor_fee, success,
			timestamp
		 FROM runs ORDER BY timestamp DESC LIMIT ?`, s.maxListed)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Query, &r.Workflow, &r.QueryType,
			&r.SourcesConsulted, &r.SuccessfulSources, &r.Findings,
			&r.URLsDiscovered, &r.ActorFee, &r.Success, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns the full stored report for one run id.
func (s *Store) Get(ctx context.Context, id string) (types.Report, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return types.Report{}, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return types.Report{}, fmt.Errorf("querying run: %w", err)
	}

	var rep types.Report
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return types.Report{}, fmt.Errorf("parsing stored report: %w", err)
	}
	return rep, nil
}
