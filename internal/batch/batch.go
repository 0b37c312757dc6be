// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch analyzes every registry document in a directory with a
// bounded pool of workers and writes one analysis file per document.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/internal/ingest"
	"github.com/pdiddy/registry-engine/internal/ledger"
	"github.com/pdiddy/registry-engine/internal/metrics"
	"github.com/pdiddy/registry-engine/pkg/types"
)

// Document outcomes, also used as metric labels.
const (
	OutcomeAnalyzed = "analyzed"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// BatchSummary holds counts from a batch run.
type BatchSummary struct {
	RunID     string
	Analyzed  int
	Skipped   int
	Failed    int
	HardStops int
	Review    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Runner runs batches. Metrics, Ledger, and Logger are optional.
type Runner struct {
	Engine  *analyze.Engine
	Ingest  types.IngestConfig
	Metrics *metrics.Metrics
	Ledger  *ledger.Store
	Logger  *zap.Logger
}

// outcome is one document's result, kept by input position so status lines
// print in input order whatever order the workers finish in.
type outcome struct {
	id     string
	status string
	err    error
	result *analyze.Result
}

// Run analyzes every supported file in cfg.InputDir and writes
// cfg.OutputDir/<id>-analysis.yaml. Inputs older than their output are
// skipped unless cfg.Force is set. Per-document failures are counted, not
// returned; Run fails only when the directories are unusable or ctx ends.
func (r *Runner) Run(ctx context.Context, cfg types.BatchConfig, w io.Writer) (BatchSummary, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || !ingest.Supported(entry.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(cfg.InputDir, entry.Name()))
	}

	var summary BatchSummary
	if r.Ledger != nil {
		summary.RunID, err = r.Ledger.StartRun(ctx, cfg.InputDir)
		if err != nil {
			return BatchSummary{}, fmt.Errorf("starting ledger run: %w", err)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	log.Info("batch started",
		zap.String("input_dir", cfg.InputDir),
		zap.Int("documents", len(inputs)),
		zap.Int("workers", workers),
		zap.String("run_id", summary.RunID),
	)

	outcomes := make([]outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range inputs {
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			outcomes[i] = r.process(gctx, summary.RunID, path, cfg, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	for _, o := range outcomes {
		switch o.status {
		case OutcomeSkipped:
			fmt.Fprintf(w, "skipped %s\n", o.id)
			summary.Skipped++
		case OutcomeFailed:
			fmt.Fprintf(w, "failed  %s: %v\n", o.id, o.err)
			summary.Failed++
		default:
			fmt.Fprintf(w, "analyzed %s (%s)\n", o.id, statusLine(o.result))
			summary.Analyzed++
			if len(o.result.HardStops()) > 0 {
				summary.HardStops++
			}
			if o.result.NeedsManualReview() {
				summary.Review++
			}
		}
	}

	fmt.Fprintf(w, "\nanalyzed: %d, skipped: %d, failed: %d, hard stops: %d, review: %d\n",
		summary.Analyzed, summary.Skipped, summary.Failed, summary.HardStops, summary.Review)
	log.Info("batch finished",
		zap.Int("analyzed", summary.Analyzed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// process loads, analyzes, writes, and records one document.
func (r *Runner) process(ctx context.Context, runID, path string, cfg types.BatchConfig, log *zap.Logger) outcome {
	o := outcome{id: ingest.DocumentID(path)}
	outPath := filepath.Join(cfg.OutputDir, o.id+"-analysis.yaml")

	fail := func(err error) outcome {
		o.status, o.err = OutcomeFailed, err
		r.Metrics.IncrementDocument(OutcomeFailed)
		log.Warn("document failed", zap.String("document", o.id), zap.Error(err))
		return o
	}

	if !cfg.Force {
		changed, err := hasChanged(path, outPath)
		if err != nil {
			return fail(err)
		}
		if !changed {
			o.status = OutcomeSkipped
			r.Metrics.IncrementDocument(OutcomeSkipped)
			return o
		}
	}

	start := time.Now()
	doc, err := ingest.Load(path, r.Ingest)
	if err != nil {
		return fail(err)
	}
	res, err := r.Engine.Analyze(doc)
	if err != nil {
		return fail(err)
	}
	r.Metrics.ObserveAnalyzeLatency(time.Since(start))

	if err := writeResult(outPath, res); err != nil {
		return fail(fmt.Errorf("write error: %w", err))
	}
	if r.Ledger != nil {
		if _, err := r.Ledger.Record(ctx, runID, doc, r.Engine.Policy(), res); err != nil {
			return fail(fmt.Errorf("ledger: %w", err))
		}
	}

	o.status, o.result = OutcomeAnalyzed, res
	r.Metrics.IncrementDocument(OutcomeAnalyzed)
	r.Metrics.ObserveReport(res.Report())
	log.Debug("document analyzed",
		zap.String("document", o.id),
		zap.String("resolution", string(res.ResolutionMethod())),
		zap.Float64("confidence", res.Confidence()),
		zap.Int("hard_stops", len(res.HardStops())),
	)
	return o
}

func statusLine(r *analyze.Result) string {
	base := "base=none"
	if b, ok := r.BaseRight(); ok {
		base = fmt.Sprintf("base=seq%d", b.Seq)
	}
	return fmt.Sprintf("%s, hard stops: %d, confidence: %.4f", base, len(r.HardStops()), r.Confidence())
}

// hasChanged reports whether the input is newer than its analysis file.
// Returns true if the output does not exist.
func hasChanged(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, fmt.Errorf("stat input %s: %w", inPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return inInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeResult marshals the analysis to a YAML file.
func writeResult(path string, r *analyze.Result) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
