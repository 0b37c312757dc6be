// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records every analysis in a SQLite audit trail so that a
// verdict can be traced back to the exact document and policy it came from,
// and so repeated analyses can be checked for determinism.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/pkg/types"
)

const dbFile = "ledger.db"

// Store manages the ledger database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates cfg.Dir/ledger.db and its schema.
func Open(cfg types.LedgerConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Batch workers record concurrently; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
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

// Dir returns the directory holding the database and its exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			label TEXT,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			document_id TEXT NOT NULL,
			source TEXT,
			document_digest TEXT NOT NULL,
			policy_digest TEXT NOT NULL,
			result_digest TEXT NOT NULL,
			base_seq INTEGER,
			resolution TEXT NOT NULL,
			confidence REAL NOT NULL,
			needs_review INTEGER NOT NULL,
			hard_stops TEXT NOT NULL,
			warnings TEXT NOT NULL,
			report TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_document_id ON analyses(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_digest ON analyses(document_digest, policy_digest)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_run_id ON analyses(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun registers a new run and returns its id.
func (s *Store) StartRun(ctx context.Context, label string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, started_at) VALUES (?, ?, ?)`,
		id, label, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Record stores one analysis under runID and returns the stored entry.
func (s *Store) Record(ctx context.Context, runID string, doc types.RegistryDocument, policy types.Policy, r *analyze.Result) (Entry, error) {
	docDigest, err := DocumentDigest(doc)
	if err != nil {
		return Entry{}, err
	}
	policyDigest, err := PolicyDigest(policy)
	if err != nil {
		return Entry{}, err
	}
	report, err := json.Marshal(r)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding report: %w", err)
	}

	e := Entry{
		RunID:          runID,
		DocumentID:     r.DocumentID(),
		Source:         r.Source(),
		DocumentDigest: docDigest,
		PolicyDigest:   policyDigest,
		ResultDigest:   digest(report),
		Resolution:     r.ResolutionMethod(),
		Confidence:     r.Confidence(),
		NeedsReview:    r.NeedsManualReview(),
		HardStops:      []types.HardStopCode{},
		Warnings:       []types.WarningKind{},
		RecordedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, ok := r.BaseRight(); ok {
		e.BaseSeq = types.IntPtr(b.Seq)
	}
	for _, h := range r.HardStops() {
		e.HardStops = append(e.HardStops, h.Code)
	}
	for _, w := range r.Warnings() {
		e.Warnings = append(e.Warnings, w.Kind)
	}

	stopsJSON, _ := json.Marshal(e.HardStops)
	warningsJSON, _ := json.Marshal(e.Warnings)
	var baseSeq sql.NullInt64
	if e.BaseSeq != nil {
		baseSeq = sql.NullInt64{Int64: int64(*e.BaseSeq), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (run_id, document_id, source, document_digest, policy_digest, result_digest,
			base_seq, resolution, confidence, needs_review, hard_stops, warnings, report, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.DocumentID, e.Source, e.DocumentDigest, e.PolicyDigest, e.ResultDigest,
		baseSeq, string(e.Resolution), e.Confidence, e.NeedsReview,
		string(stopsJSON), string(warningsJSON), string(report), e.RecordedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting analysis %s: %w", e.DocumentID, err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("reading analysis id: %w", err)
	}
	return e, nil
}

// DocumentDigest is the SHA-256 of the document's canonical JSON encoding.
func DocumentDigest(doc types.RegistryDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	return digest(data), nil
}

// PolicyDigest is the SHA-256 of the policy's YAML encoding.
func PolicyDigest(p types.Policy) (string, error) {
	data, err := analyze.MarshalPolicy(p)
	if err != nil {
		return "", err
	}
	return digest(data), nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
