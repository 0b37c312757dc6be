// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Result is the analysis of one registry document. It is built once by an
// Engine and never changes afterwards; accessors return copies.
type Result struct {
	documentID string
	source     string
	title      types.TitleSection

	// events is sorted by seq; index maps seq to position.
	events []types.EventAnalysis
	index  map[int]int

	// base is the position of the base right in events, or -1.
	base   int
	method types.ResolutionMethod

	hardStops  []types.HardStop
	warnings   []types.Warning
	downgraded bool

	confidence float64
	summary    types.Summary
}

// DocumentID returns the analyzed document's id.
func (r *Result) DocumentID() string { return r.documentID }

// Source returns the adapter that produced the document.
func (r *Result) Source() string { return r.source }

// BaseRight returns the extinguishment base right.
func (r *Result) BaseRight() (types.EventAnalysis, bool) {
	if r.base < 0 {
		return types.EventAnalysis{}, false
	}
	return cloneAnalysis(r.events[r.base]), true
}

// ResolutionMethod reports how the base right was chosen.
func (r *Result) ResolutionMethod() types.ResolutionMethod { return r.method }

// Events returns every event in seq order with its derived fields.
func (r *Result) Events() []types.EventAnalysis {
	out := make([]types.EventAnalysis, len(r.events))
	for i, e := range r.events {
		out[i] = cloneAnalysis(e)
	}
	return out
}

// Event returns the event with the given seq.
func (r *Result) Event(seq int) (types.EventAnalysis, bool) {
	i, ok := r.index[seq]
	if !ok {
		return types.EventAnalysis{}, false
	}
	return cloneAnalysis(r.events[i]), true
}

// HardStops returns the triggered rules in evaluation order.
func (r *Result) HardStops() []types.HardStop {
	out := make([]types.HardStop, len(r.hardStops))
	for i, h := range r.hardStops {
		out[i] = h
		out[i].TriggerSeqs = append([]int(nil), h.TriggerSeqs...)
	}
	return out
}

// HasHardStop reports whether code was triggered.
func (r *Result) HasHardStop(code types.HardStopCode) bool {
	for _, h := range r.hardStops {
		if h.Code == code {
			return true
		}
	}
	return false
}

// Warnings returns the warnings in pipeline order.
func (r *Result) Warnings() []types.Warning {
	out := make([]types.Warning, len(r.warnings))
	for i, w := range r.warnings {
		out[i] = w
		out[i].Seqs = append([]int(nil), w.Seqs...)
	}
	return out
}

// YellowCodes returns the hard-stop codes that were demoted to warnings.
func (r *Result) YellowCodes() []types.HardStopCode {
	return append([]types.HardStopCode(nil), r.summary.YellowCodes...)
}

// Confidence returns the overall confidence in [0,1].
func (r *Result) Confidence() float64 { return r.confidence }

// Downgraded reports whether any hard-stop evaluation was demoted.
func (r *Result) Downgraded() bool { return r.downgraded }

// NeedsManualReview reports whether the result must be reviewed by hand.
func (r *Result) NeedsManualReview() bool { return r.summary.NeedsManualReview }

// Summary returns the fixed-shape summary.
func (r *Result) Summary() types.Summary { return cloneSummary(r.summary) }

// Report returns a serializable snapshot of the result.
func (r *Result) Report() types.AnalysisReport {
	rep := types.AnalysisReport{
		DocumentID:       r.documentID,
		Source:           r.source,
		ResolutionMethod: r.method,
		Events:           r.Events(),
		HardStops:        r.HardStops(),
		Confidence:       r.confidence,
		Warnings:         r.Warnings(),
		Summary:          r.Summary(),
	}
	if r.base >= 0 {
		rep.BaseRightSeq = types.IntPtr(r.events[r.base].Seq)
	}
	return rep
}

// MarshalYAML encodes the result as its report.
func (r *Result) MarshalYAML() (any, error) {
	return r.Report(), nil
}

// MarshalJSON encodes the result as its report.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Report())
}

// baseEvent returns a pointer into the arena; internal use only.
func (r *Result) baseEvent() *types.EventAnalysis {
	if r.base < 0 {
		return nil
	}
	return &r.events[r.base]
}

func cloneAnalysis(e types.EventAnalysis) types.EventAnalysis {
	c := e
	c.RegistryEvent = e.RegistryEvent.Clone()
	return c
}

func cloneSummary(s types.Summary) types.Summary {
	c := s
	if s.BaseRight != nil {
		b := *s.BaseRight
		c.BaseRight = &b
	}
	c.HardStopCodes = append([]types.HardStopCode{}, s.HardStopCodes...)
	c.YellowCodes = append([]types.HardStopCode{}, s.YellowCodes...)
	return c
}
