package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.LedgerConfig{Dir: t.TempDir(), MaxResults: 50})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ev(seq int, section types.Section, rank int, purpose, date string) types.RegistryEvent {
	return types.RegistryEvent{
		Seq: seq, Section: section, RankNo: rank, Purpose: purpose,
		AcceptedDate: date, RegisteredDate: date, ReceiptNo: seq * 10,
	}
}

func cleanDocument() types.RegistryDocument {
	return types.RegistryDocument{
		ID:     "clean",
		Source: "yaml",
		Ownership: []types.RegistryEvent{
			ev(1, types.SectionOwnership, 1, "소유권보존", "2010-01-05"),
		},
		Encumbrance: []types.RegistryEvent{
			ev(2, types.SectionEncumbrance, 1, "근저당권설정", "2011-02-10"),
		},
	}
}

func trustDocument() types.RegistryDocument {
	doc := cleanDocument()
	doc.ID = "trust"
	doc.Ownership = append(doc.Ownership, ev(3, types.SectionOwnership, 2, "신탁", "2012-03-15"))
	return doc
}

func unresolvedDocument() types.RegistryDocument {
	return types.RegistryDocument{
		ID: "unresolved",
		Ownership: []types.RegistryEvent{
			ev(1, types.SectionOwnership, 1, "소유권보존", "2010-01-05"),
		},
	}
}

func record(t *testing.T, s *Store, runID string, doc types.RegistryDocument) Entry {
	t.Helper()
	p := types.DefaultPolicy()
	engine, err := analyze.NewEngine(p)
	require.NoError(t, err)
	r, err := engine.Analyze(doc)
	require.NoError(t, err)
	e, err := s.Record(context.Background(), runID, doc, p, r)
	require.NoError(t, err)
	return e
}

func startRun(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.StartRun(context.Background(), "test")
	require.NoError(t, err)
	return id
}

// --- tests ---

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	run := startRun(t, s)

	clean := record(t, s, run, cleanDocument())
	assert.NotZero(t, clean.ID)
	assert.Equal(t, 2, *clean.BaseSeq)
	assert.Equal(t, types.ResolutionPriorityMatch, clean.Resolution)
	assert.Len(t, clean.DocumentDigest, 64)

	record(t, s, run, trustDocument())
	record(t, s, run, unresolvedDocument())

	ctx := context.Background()
	all, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, clean, all[0])
	assert.Nil(t, all[2].BaseSeq)

	stops, err := s.List(ctx, QueryOptions{HardStop: types.HSTrust})
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "trust", stops[0].DocumentID)
	assert.Equal(t, []types.HardStopCode{types.HSTrust}, stops[0].HardStops)

	review, err := s.List(ctx, QueryOptions{ReviewOnly: true})
	require.NoError(t, err)
	require.Len(t, review, 1)
	assert.Equal(t, "unresolved", review[0].DocumentID)
	assert.Contains(t, review[0].Warnings, types.WarnBaseRightUnresolved)

	byDoc, err := s.List(ctx, QueryOptions{DocumentID: "clean", RunID: run})
	require.NoError(t, err)
	assert.Len(t, byDoc, 1)

	limited, err := s.List(ctx, QueryOptions{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReport(t *testing.T) {
	s := testStore(t)
	e := record(t, s, startRun(t, s), trustDocument())

	rep, err := s.Report(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "trust", rep.DocumentID)
	assert.Equal(t, 2, *rep.BaseRightSeq)
	require.Len(t, rep.HardStops, 1)
	assert.Equal(t, types.HSTrust, rep.HardStops[0].Code)

	_, err = s.Report(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := s.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = s.Get(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestVerify(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := record(t, s, startRun(t, s), trustDocument())
	record(t, s, startRun(t, s), trustDocument())
	record(t, s, startRun(t, s), cleanDocument())

	mismatches, err := s.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches, "repeated analyses are deterministic")

	// Simulate a nondeterministic rerun.
	_, err = s.db.ExecContext(ctx, `UPDATE analyses SET result_digest = 'tampered' WHERE id = ?`, first.ID)
	require.NoError(t, err)

	mismatches, err = s.Verify(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "trust", mismatches[0].DocumentID)
	assert.Equal(t, first.DocumentDigest, mismatches[0].DocumentDigest)
	assert.Len(t, mismatches[0].ResultDigests, 2)
}

func TestVerifySeparatesPolicies(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	doc := trustDocument()

	record(t, s, startRun(t, s), doc)

	p := types.DefaultPolicy()
	p.HardStops = []types.HardStopCode{types.HSPreliminaryNotice}
	engine, err := analyze.NewEngine(p)
	require.NoError(t, err)
	r, err := engine.Analyze(doc)
	require.NoError(t, err)
	_, err = s.Record(ctx, startRun(t, s), doc, p, r)
	require.NoError(t, err)

	mismatches, err := s.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches, "different policies may produce different results")
}

func TestExport(t *testing.T) {
	s := testStore(t)
	run := startRun(t, s)
	record(t, s, run, cleanDocument())
	record(t, s, run, trustDocument())
	ctx := context.Background()

	path, err := s.ExportYAML(ctx, QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fromYAML []Entry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Len(t, fromYAML, 2)

	path, err = s.ExportJSON(ctx, QueryOptions{HardStop: types.HSTrust})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var fromJSON []Entry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "trust", fromJSON[0].DocumentID)

	path, err = s.ExportJSON(ctx, QueryOptions{DocumentID: "missing"})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDigests(t *testing.T) {
	a, err := DocumentDigest(cleanDocument())
	require.NoError(t, err)
	b, err := DocumentDigest(cleanDocument())
	require.NoError(t, err)
	c, err := DocumentDigest(trustDocument())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	p1, err := PolicyDigest(types.DefaultPolicy())
	require.NoError(t, err)
	changed := types.DefaultPolicy()
	changed.CancelThreshold = 0.9
	p2, err := PolicyDigest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestStartRunIDsAreUnique(t *testing.T) {
	s := testStore(t)
	assert.NotEqual(t, startRun(t, s), startRun(t, s))
}
