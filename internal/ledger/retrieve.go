// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// ErrNotFound is returned when a ledger entry does not exist.
var ErrNotFound = errors.New("ledger entry not found")

// Entry is one recorded analysis.
type Entry struct {
	ID             int64                  `json:"id" yaml:"id"`
	RunID          string                 `json:"run_id" yaml:"run_id"`
	DocumentID     string                 `json:"document_id" yaml:"document_id"`
	Source         string                 `json:"source" yaml:"source"`
	DocumentDigest string                 `json:"document_digest" yaml:"document_digest"`
	PolicyDigest   string                 `json:"policy_digest" yaml:"policy_digest"`
	ResultDigest   string                 `json:"result_digest" yaml:"result_digest"`
	BaseSeq        *int                   `json:"base_seq" yaml:"base_seq"`
	Resolution     types.ResolutionMethod `json:"resolution" yaml:"resolution"`
	Confidence     float64                `json:"confidence" yaml:"confidence"`
	NeedsReview    bool                   `json:"needs_review" yaml:"needs_review"`
	HardStops      []types.HardStopCode   `json:"hard_stops" yaml:"hard_stops"`
	Warnings       []types.WarningKind    `json:"warnings" yaml:"warnings"`
	RecordedAt     string                 `json:"recorded_at" yaml:"recorded_at"`
}

// QueryOptions filters List.
type QueryOptions struct {
	// DocumentID restricts entries to one document.
	DocumentID string

	// RunID restricts entries to one run.
	RunID string

	// HardStop keeps entries that raised this code.
	HardStop types.HardStopCode

	// ReviewOnly keeps entries that need manual review.
	ReviewOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

const entryColumns = `id, run_id, document_id, source, document_digest, policy_digest, result_digest,
	base_seq, resolution, confidence, needs_review, hard_stops, warnings, recorded_at`

// List returns entries matching opts, oldest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + entryColumns + ` FROM analyses WHERE 1=1`)

	if opts.DocumentID != "" {
		qb.WriteString(` AND document_id = ?`)
		args = append(args, opts.DocumentID)
	}
	if opts.RunID != "" {
		qb.WriteString(` AND run_id = ?`)
		args = append(args, opts.RunID)
	}
	if opts.HardStop != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(hard_stops) WHERE value = ?)`)
		args = append(args, string(opts.HardStop))
	}
	if opts.ReviewOnly {
		qb.WriteString(` AND needs_review = 1`)
	}

	qb.WriteString(` ORDER BY id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM analyses WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return e, err
}

// Report returns the analysis report stored with entry id.
func (s *Store) Report(ctx context.Context, id int64) (types.AnalysisReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM analyses WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.AnalysisReport{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
		}
		return types.AnalysisReport{}, fmt.Errorf("looking up report: %w", err)
	}

	var rep types.AnalysisReport
	if err := json.Unmarshal([]byte(data), &rep); err != nil {
		return types.AnalysisReport{}, fmt.Errorf("decoding report %d: %w", id, err)
	}
	return rep, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e            Entry
		source       sql.NullString
		baseSeq      sql.NullInt64
		resolution   string
		stopsJSON    string
		warningsJSON string
	)
	if err := row.Scan(
		&e.ID, &e.RunID, &e.DocumentID, &source, &e.DocumentDigest, &e.PolicyDigest, &e.ResultDigest,
		&baseSeq, &resolution, &e.Confidence, &e.NeedsReview, &stopsJSON, &warningsJSON, &e.RecordedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning row: %w", err)
	}

	e.Source = source.String
	e.Resolution = types.ResolutionMethod(resolution)
	if baseSeq.Valid {
		e.BaseSeq = types.IntPtr(int(baseSeq.Int64))
	}
	e.HardStops = []types.HardStopCode{}
	e.Warnings = []types.WarningKind{}
	json.Unmarshal([]byte(stopsJSON), &e.HardStops)
	json.Unmarshal([]byte(warningsJSON), &e.Warnings)
	return e, nil
}
